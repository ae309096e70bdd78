package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load every table and check cross-table references",
	Long: `Decodes every known table from the configured source and reports dangling
references. Exits non-zero when a table fails to load, or on any dangling
reference when --strict-references is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet && tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout())
		}

		render := tui.NewRenderer()
		res, _, err := loadCatalog(cmd)
		if err != nil {
			if out, rerr := render(tui.FailureReport(err)); rerr == nil {
				fmt.Fprint(cmd.ErrOrStderr(), out)
			}
			return fmt.Errorf("validation failed: %w", err)
		}
		if quiet {
			return nil
		}

		out, err := render(tui.LoadReport(res.Catalog, res.References))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if res.References.OK() {
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog is valid! ✅")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict-references", false, "Fail on dangling references")
	validateCmd.Flags().BoolP("quiet", "q", false, "Only report failures")
}
