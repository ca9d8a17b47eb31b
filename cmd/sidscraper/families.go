// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sidscraper/internal/catalog"
	"github.com/pdiddy/sidscraper/internal/httputil"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the plant families a harvest would query",
	Long: `Families reads the browse pages of The Plant List and prints the family
names in the order a harvest would query them. Names are printed verbatim
and duplicates are kept.`,
	Args: cobra.NoArgs,
	RunE: runFamilies,
}

func init() {
	familiesCmd.Flags().String("format", "table", "output format: table or yaml")
	rootCmd.AddCommand(familiesCmd)
}

// familyList is the YAML form of the catalog.
type familyList struct {
	Count    int      `yaml:"count"`
	Families []string `yaml:"families"`
}

func runFamilies(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "yaml" {
		return fmt.Errorf("unknown format %q: use table or yaml", format)
	}

	cfg := runConfig()
	client := httputil.NewClient(cfg.HTTP, logger)
	families, err := catalog.Build(cmd.Context(), client, cfg.Catalog, logger)
	if err != nil {
		return err
	}
	return printFamilies(os.Stdout, families, format)
}

func printFamilies(w io.Writer, families []string, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(familyList{Count: len(families), Families: families})
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Family"})
	for i, f := range families {
		t.AppendRow(table.Row{i + 1, f})
	}
	t.Render()
	return nil
}
