package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhazard/logictree/internal/logictree"
	"github.com/openhazard/logictree/internal/source"
)

var rootCmd = &cobra.Command{
	Use:   "ltree",
	Short: "Ltree: a logic tree engine for seismic hazard epistemic uncertainty",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadTreeFile builds a LogicTree from a definition file, picking the
// reader by extension: .hcl for the modern format, anything else is parsed
// as legacy NRML XML.
func loadTreeFile(path string) (*logictree.LogicTree, error) {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		sets, err := source.ReadHCL(path)
		if err != nil {
			return nil, err
		}
		lt, err := logictree.New(sets)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return lt, nil
	}
	node, err := source.ReadXML(path)
	if err != nil {
		return nil, err
	}
	return logictree.FromNode(path, node)
}
