package logictree

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// BranchRecord is one row of the flat serialized form: the branches of
// every branch set concatenated in branch-set-then-branch order.
type BranchRecord struct {
	BsID        string
	BrID        string
	Uncertainty string
	Weight      float64
}

// Encode flattens the tree into its record sequence plus a TOML blob
// mapping bsid to the remaining branch set attributes. bsid itself is the
// key, so it is stripped from each attribute map.
func (lt *LogicTree) Encode() ([]BranchRecord, string, error) {
	attrs := make(map[string]map[string]string, len(lt.order))
	var records []BranchRecord
	for _, bsid := range lt.order {
		bs := lt.byID[bsid]
		a := make(map[string]string, len(bs.Attrs))
		for k, v := range bs.Attrs {
			if k != "bsid" {
				a[k] = v
			}
		}
		attrs[bsid] = a
		for _, br := range bs.Branches {
			records = append(records, BranchRecord{
				BsID:        bsid,
				BrID:        br.ID,
				Uncertainty: br.Uncertainty,
				Weight:      br.Weight,
			})
		}
	}
	blob, err := toml.Marshal(attrs)
	if err != nil {
		return nil, "", fmt.Errorf("encode branch set attrs: %w", err)
	}
	return records, string(blob), nil
}

// Decode rebuilds a LogicTree from its flat form. Records are grouped by
// bsid preserving both first-appearance order across sets and relative
// order within each set, then the same linking pass as construction is
// re-run from each set's applyToBranches attribute.
func Decode(records []BranchRecord, blob string) (*LogicTree, error) {
	attrs := map[string]map[string]string{}
	if err := toml.Unmarshal([]byte(blob), &attrs); err != nil {
		return nil, fmt.Errorf("decode branch set attrs: %w", err)
	}
	var order []string
	grouped := map[string][]BranchRecord{}
	for _, rec := range records {
		if _, seen := grouped[rec.BsID]; !seen {
			order = append(order, rec.BsID)
		}
		grouped[rec.BsID] = append(grouped[rec.BsID], rec)
	}
	branchsets := make([]*BranchSet, 0, len(order))
	for _, bsid := range order {
		a, ok := attrs[bsid]
		if !ok {
			return nil, fmt.Errorf("%w: no attrs for branch set %q", ErrInvalidLogicTree, bsid)
		}
		bsAttrs := make(map[string]string, len(a)+1)
		for k, v := range a {
			bsAttrs[k] = v
		}
		bsAttrs["bsid"] = bsid
		bs := &BranchSet{Attrs: bsAttrs}
		for _, rec := range grouped[bsid] {
			bs.Branches = append(bs.Branches, &Branch{
				BsID:        bsid,
				ID:          rec.BrID,
				Uncertainty: rec.Uncertainty,
				Weight:      rec.Weight,
			})
		}
		branchsets = append(branchsets, bs)
	}
	return New(branchsets)
}
