package logictree

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

var (
	// ErrInvalidLogicTree marks structural violations: a legacy branching
	// level with more than one branch set, a duplicate or missing id, or an
	// applyToBranches filter naming a branch the parent set does not have.
	ErrInvalidLogicTree = errors.New("invalid logic tree")

	// ErrNotImplemented is returned by the tree-to-markup export path.
	ErrNotImplemented = errors.New("logic tree export to NRML is not implemented")
)

// LogicTree owns an ordered arena of branch sets keyed by bsid. The first
// branch set is the root level. Construction is two-phase: install every
// set, then run the linking pass that points each parent Branch at its
// child set. After New returns the tree is read-only and safe to share
// across concurrent readers.
type LogicTree struct {
	order []string
	byID  map[string]*BranchSet
}

// New builds a LogicTree over the given branch sets, in order. Branch set
// i+1 attaches under the branches of set i selected by its applyToBranches
// attribute (absent means all of them). Branches left unselected keep a nil
// Child and terminate the tree early.
func New(branchsets []*BranchSet) (*LogicTree, error) {
	if len(branchsets) == 0 {
		return nil, fmt.Errorf("%w: no branch sets", ErrInvalidLogicTree)
	}
	lt := &LogicTree{byID: make(map[string]*BranchSet, len(branchsets))}
	for _, bs := range branchsets {
		bsid := bs.ID()
		if bsid == "" {
			return nil, fmt.Errorf("%w: branch set without bsid", ErrInvalidLogicTree)
		}
		if _, dup := lt.byID[bsid]; dup {
			return nil, fmt.Errorf("%w: duplicate branch set %q", ErrInvalidLogicTree, bsid)
		}
		seen := make(map[string]bool, len(bs.Branches))
		for _, br := range bs.Branches {
			if seen[br.ID] {
				return nil, fmt.Errorf("%w: duplicate branch %q in branch set %q",
					ErrInvalidLogicTree, br.ID, bsid)
			}
			seen[br.ID] = true
			br.Child = nil // reset before linking; New may relink shared definitions
		}
		lt.order = append(lt.order, bsid)
		lt.byID[bsid] = bs
	}
	for i := 1; i < len(branchsets); i++ {
		parent, child := branchsets[i-1], branchsets[i]
		sel, err := selectParents(parent, child)
		if err != nil {
			return nil, err
		}
		for pos, br := range parent.Branches {
			if sel == nil || sel.Contains(uint32(pos)) {
				br.Child = child
			}
		}
	}
	return lt, nil
}

// selectParents resolves the child's applyToBranches attribute into a
// bitmap over parent branch positions. nil means every parent branch.
// A filter id with no matching parent branch signals a malformed tree and
// fails loudly rather than silently producing fewer realizations.
func selectParents(parent, child *BranchSet) (*roaring.Bitmap, error) {
	atb, ok := child.Attrs["applyToBranches"]
	if !ok || strings.TrimSpace(atb) == "" {
		return nil, nil
	}
	pos := make(map[string]uint32, len(parent.Branches))
	for i, br := range parent.Branches {
		pos[br.ID] = uint32(i)
	}
	sel := roaring.New()
	for _, brid := range strings.Fields(atb) {
		p, ok := pos[brid]
		if !ok {
			return nil, fmt.Errorf(
				"%w: applyToBranches of %q names branch %q, not in parent branch set %q",
				ErrInvalidLogicTree, child.ID(), brid, parent.ID())
		}
		sel.Add(p)
	}
	return sel, nil
}

// BsIDs returns the branch set identifiers in insertion order.
func (lt *LogicTree) BsIDs() []string {
	out := make([]string, len(lt.order))
	copy(out, lt.order)
	return out
}

// Get returns the branch set with the given id, or nil.
func (lt *LogicTree) Get(bsid string) *BranchSet {
	return lt.byID[bsid]
}

// RootBranches returns the branches of the first branch set.
func (lt *LogicTree) RootBranches() []*Branch {
	return lt.byID[lt.order[0]].Branches
}

// Reduce returns a new LogicTree restricted to the named branch sets, in
// the given order, with the linking pass re-run over that subsequence.
// Branches are copied so the receiver's links are left untouched.
func (lt *LogicTree) Reduce(bsids ...string) (*LogicTree, error) {
	sets := make([]*BranchSet, 0, len(bsids))
	for _, bsid := range bsids {
		bs, ok := lt.byID[bsid]
		if !ok {
			return nil, fmt.Errorf("%w: unknown branch set %q", ErrInvalidLogicTree, bsid)
		}
		attrs := make(map[string]string, len(bs.Attrs))
		for k, v := range bs.Attrs {
			attrs[k] = v
		}
		cp := &BranchSet{Attrs: attrs, Branches: make([]*Branch, len(bs.Branches))}
		for i, br := range bs.Branches {
			cp.Branches[i] = &Branch{
				BsID:        br.BsID,
				ID:          br.ID,
				Uncertainty: br.Uncertainty,
				Weight:      br.Weight,
			}
		}
		sets = append(sets, cp)
	}
	return New(sets)
}

// WriteNRML is the reverse of the markup path. It is unsupported: callers
// must not rely on tree-to-markup export.
func (lt *LogicTree) WriteNRML(w io.Writer) error {
	return ErrNotImplemented
}

func (lt *LogicTree) String() string {
	return fmt.Sprintf("<LogicTree %v>", lt.order)
}
