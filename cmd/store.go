package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhazard/logictree/internal/store"
)

var (
	dbPath string
	slot   string
)

var saveCmd = &cobra.Command{
	Use:   "save [tree-file]",
	Short: "Parse a logic tree and persist it to a SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTreeFile(args[0])
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		name := slot
		if name == "" {
			base := filepath.Base(args[0])
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		start := time.Now()
		if err := st.SaveTree(name, tree); err != nil {
			return err
		}
		fmt.Printf("Saved %s to %s slot %q in %v.\n", args[0], dbPath, name, time.Since(start))
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load [slot]",
	Short: "Load a stored logic tree and print its realizations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if len(args) == 0 {
			slots, err := st.Slots()
			if err != nil {
				return err
			}
			for _, s := range slots {
				fmt.Println(s)
			}
			return nil
		}
		tree, err := st.LoadTree(args[0])
		if err != nil {
			return err
		}
		return printRlzs(tree)
	},
}

func init() {
	for _, c := range []*cobra.Command{saveCmd, loadCmd} {
		c.Flags().StringVar(&dbPath, "db", "logictree.db", "Path to the SQLite database")
	}
	saveCmd.Flags().StringVar(&slot, "slot", "", "Slot name (default: tree file basename)")
	loadCmd.Flags().IntVarP(&numSamples, "samples", "n", 0, "Number of samples (0 = full enumeration)")
	loadCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for sampling")
	rootCmd.AddCommand(saveCmd, loadCmd)
}
