package logictree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openhazard/logictree/api"
)

// levelNodes unwraps the legacy logicTreeBranchingLevel container. The
// legacy format guarantees exactly one branch set per level; more than one
// is a structural violation. A bare logicTreeBranchSet node is accepted
// directly. Anything else is a format error.
func levelNodes(name string, node *api.Node) ([]*api.Node, error) {
	switch {
	case strings.HasSuffix(node.Tag, "logicTreeBranchingLevel"):
		if len(node.Children) > 1 {
			return nil, fmt.Errorf("%w: %s: branching level %q has multiple branch sets",
				ErrInvalidLogicTree, name, node.Attrib["branchingLevelID"])
		}
		return node.Children, nil
	case strings.HasSuffix(node.Tag, "logicTreeBranchSet"):
		return []*api.Node{node}, nil
	default:
		return nil, fmt.Errorf("%s: expected branching level or branch set, got <%s>",
			name, node.Tag)
	}
}

// FromNode builds a LogicTree from a parsed logicTree element. name is the
// source identifier used in error messages, typically the file path.
func FromNode(name string, root *api.Node) (*LogicTree, error) {
	var branchsets []*BranchSet
	for _, blnode := range root.Children {
		bsnodes, err := levelNodes(name, blnode)
		if err != nil {
			return nil, err
		}
		if len(bsnodes) != 1 {
			return nil, fmt.Errorf("%w: %s: branching level %q has no branch set",
				ErrInvalidLogicTree, name, blnode.Attrib["branchingLevelID"])
		}
		bs, err := readBranchSet(name, bsnodes[0])
		if err != nil {
			return nil, err
		}
		branchsets = append(branchsets, bs)
	}
	lt, err := New(branchsets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return lt, nil
}

// readBranchSet converts one branch set node, renaming the source's
// branchSetID attribute to the canonical bsid key. All other attributes
// pass through unchanged.
func readBranchSet(name string, bsnode *api.Node) (*BranchSet, error) {
	bsid, ok := bsnode.Attr("branchSetID")
	if !ok {
		return nil, fmt.Errorf("%w: %s: branch set without branchSetID",
			ErrInvalidLogicTree, name)
	}
	attrs := make(map[string]string, len(bsnode.Attrib))
	for k, v := range bsnode.Attrib {
		if k != "branchSetID" {
			attrs[k] = v
		}
	}
	attrs["bsid"] = bsid

	bs := &BranchSet{Attrs: attrs}
	for _, brnode := range bsnode.Children {
		if !strings.HasSuffix(brnode.Tag, "logicTreeBranch") {
			return nil, fmt.Errorf("%s: expected branch in %q, got <%s>", name, bsid, brnode.Tag)
		}
		brid := brnode.Attrib["branchID"]
		model := brnode.Child("uncertaintyModel")
		wnode := brnode.Child("uncertaintyWeight")
		if brid == "" || model == nil || wnode == nil {
			return nil, fmt.Errorf("%s: branch %q of %q is missing its id, model or weight",
				name, brid, bsid)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(wnode.Text), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: branch %q of %q: bad weight: %w", name, brid, bsid, err)
		}
		bs.Branches = append(bs.Branches, &Branch{
			BsID:        bsid,
			ID:          brid,
			Uncertainty: strings.TrimSpace(model.Text),
			Weight:      weight,
		})
	}
	return bs, nil
}
