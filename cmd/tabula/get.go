package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <table> <id>",
	Short: "Print one record of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid identifier %q: %w", args[1], err)
		}

		res, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		t, ok := res.Catalog.Table(args[0])
		if !ok {
			return fmt.Errorf("table %q not found (known: %v)", args[0], res.Catalog.Names())
		}
		rec, ok := t.Get(id)
		if !ok {
			return fmt.Errorf("%s has no record %d", args[0], id)
		}

		format, _ := cmd.Flags().GetString("output")
		return writeValue(cmd.OutOrStdout(), format, rec)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
}
