package main

import (
	"fmt"
	"sort"

	"github.com/aretw0/tabula/internal/presentation/graph"
	"github.com/aretw0/tabula/pkg/xref"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the table reference graph",
	Long: `Outputs a Mermaid diagram (graph LR) of the references between tables.
With --check the catalog is loaded and edges carrying dangling references are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		set, err := tableSet(cfg)
		if err != nil {
			return err
		}
		refs := set.References
		var names []string
		for name := range set.Schemas() {
			names = append(names, name)
		}

		var report *xref.Report
		if check, _ := cmd.Flags().GetBool("check"); check {
			res, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			names = res.Catalog.Names()
			report = res.References
		}
		sort.Strings(names)

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(names, refs, report))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("check", false, "Load the catalog and highlight dangling references")
}
