package source

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/openhazard/logictree/internal/logictree"
)

type hclBranch struct {
	ID          string  `hcl:"id,label"`
	Uncertainty string  `hcl:"uncertainty"`
	Weight      float64 `hcl:"weight"`
}

type hclBranchSet struct {
	ID              string      `hcl:"id,label"`
	UncertaintyType string      `hcl:"uncertainty_type"`
	ApplyToBranches []string    `hcl:"apply_to_branches,optional"`
	TectonicRegion  string      `hcl:"tectonic_region,optional"`
	Branches        []hclBranch `hcl:"branch,block"`
}

type hclTree struct {
	BranchSets []hclBranchSet `hcl:"branchset,block"`
}

// ReadHCL decodes a logic tree definition written in HCL, the modern
// alternative to the legacy XML format:
//
//	branchset "bs1" {
//	  uncertainty_type = "sourceModel"
//	  branch "b1" {
//	    uncertainty = "model_a.xml"
//	    weight      = 0.6
//	  }
//	}
//
// Blocks are converted to branch sets in file order, with attribute names
// mapped onto the canonical keys the linker reads.
func ReadHCL(path string) ([]*logictree.BranchSet, error) {
	var doc hclTree
	if err := hclsimple.DecodeFile(path, nil, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	sets := make([]*logictree.BranchSet, 0, len(doc.BranchSets))
	for _, hbs := range doc.BranchSets {
		attrs := map[string]string{
			"bsid":            hbs.ID,
			"uncertaintyType": hbs.UncertaintyType,
		}
		if len(hbs.ApplyToBranches) > 0 {
			attrs["applyToBranches"] = strings.Join(hbs.ApplyToBranches, " ")
		}
		if hbs.TectonicRegion != "" {
			attrs["applyToTectonicRegionType"] = hbs.TectonicRegion
		}
		bs := &logictree.BranchSet{Attrs: attrs}
		for _, hb := range hbs.Branches {
			bs.Branches = append(bs.Branches, &logictree.Branch{
				BsID:        hbs.ID,
				ID:          hb.ID,
				Uncertainty: hb.Uncertainty,
				Weight:      hb.Weight,
			})
		}
		sets = append(sets, bs)
	}
	return sets, nil
}
