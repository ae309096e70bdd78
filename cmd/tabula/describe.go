package main

import (
	"fmt"
	"sort"

	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [table]",
	Short: "Show the schema of a table",
	Long: `Prints the fields of a table schema under the configured mode. Without a
table name the known tables are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		set, err := tableSet(cfg)
		if err != nil {
			return err
		}
		schemas := set.Schemas()

		if len(args) == 0 {
			names := make([]string, 0, len(schemas))
			for name := range schemas {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		s, ok := schemas[args[0]]
		if !ok {
			return fmt.Errorf("unknown table %q", args[0])
		}
		s = s.Profile(cfg.SchemaMode())

		format, _ := cmd.Flags().GetString("output")
		if format != "markdown" {
			return writeValue(cmd.OutOrStdout(), format, s.Spec())
		}
		out, err := tui.NewRenderer()(tui.DescribeSchema(s))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringP("output", "o", "markdown", "Output format: markdown, json or yaml")
}
