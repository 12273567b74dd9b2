package logictree

// Branch is one weighted alternative inside a branch set. Child is a
// non-owning reference to the branch set that attaches under this branch;
// it is nil until the linking pass runs, and stays nil for branches that
// terminate a realization path early. All branch sets are owned by the
// LogicTree, never by a Branch.
type Branch struct {
	BsID        string
	ID          string
	Uncertainty string
	Weight      float64
	Child       *BranchSet
}

// BranchSet is one uncertainty dimension: an ordered list of mutually
// exclusive branches plus the attributes of the defining node. Attrs always
// contains "bsid"; it may contain "applyToBranches" (space-separated parent
// branch ids this set attaches under), "uncertaintyType" and filter
// attributes such as "applyToTectonicRegionType".
type BranchSet struct {
	Branches []*Branch
	Attrs    map[string]string
}

// ID returns the branch set identifier.
func (bs *BranchSet) ID() string {
	return bs.Attrs["bsid"]
}

// Realization is one fully-resolved combination of branch choices across
// all branch sets. Ordinal is the stable identity of a realization within
// one generation call.
type Realization struct {
	Value   []string `json:"value"`
	Weight  float64  `json:"weight"`
	LTPath  []string `json:"lt_path"`
	Ordinal int      `json:"ordinal"`
}
