package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/openhazard/logictree/internal/logictree"
)

var (
	numSamples int
	seed       int64
	reduceIDs  []string
)

var rlzsCmd = &cobra.Command{
	Use:   "rlzs [tree-file]",
	Short: "Enumerate or sample the realizations of a logic tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTreeFile(args[0])
		if err != nil {
			return err
		}
		if len(reduceIDs) > 0 {
			if tree, err = tree.Reduce(reduceIDs...); err != nil {
				return err
			}
		}
		return printRlzs(tree)
	},
}

// printRlzs streams the realizations as JSON lines and reports the totals.
func printRlzs(tree *logictree.LogicTree) error {
	rlzs, err := tree.GenRlzs(numSamples, seed)
	if err != nil {
		return err
	}
	count := 0
	total := 0.0
	for rlz := range rlzs {
		fmt.Println(oj.JSON(rlz))
		count++
		total += rlz.Weight
	}
	fmt.Printf("%d realizations, total weight %g\n", count, total)
	return nil
}

func init() {
	rlzsCmd.Flags().IntVarP(&numSamples, "samples", "n", 0, "Number of samples (0 = full enumeration)")
	rlzsCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for sampling")
	rlzsCmd.Flags().StringSliceVar(&reduceIDs, "reduce", nil, "Restrict the tree to the given branch set IDs")
	rootCmd.AddCommand(rlzsCmd)
}
