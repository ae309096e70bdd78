package main

import (
	"context"
	"fmt"

	"github.com/aretw0/tabula/pkg/adapters/file"
	"github.com/aretw0/tabula/pkg/adapters/redis"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push <dir>",
	Short: "Seed Redis with the tables of a directory",
	Long: `Reads every table file in <dir> and publishes its rows to the configured Redis
instance. Watching servers are notified and reload. Tables are validated before
anything is written unless --no-validate is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		ctx := cmd.Context()

		from := file.New(args[0])
		if noValidate, _ := cmd.Flags().GetBool("no-validate"); !noValidate {
			if _, err := loadFrom(ctx, from, cfg, logger); err != nil {
				return fmt.Errorf("refusing to push: %w", err)
			}
		}

		r := cfg.Source.Redis
		to := redis.New(r.Addr, r.Password, r.DB, redis.WithPrefix(r.Prefix))
		defer to.Close()

		n, err := copyTables(ctx, from, to)
		if err != nil {
			return err
		}
		logger.Info("tables pushed", "count", n, "redis", r.Addr)
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d tables to %s\n", n, r.Addr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().Bool("no-validate", false, "Skip loading the tables before pushing")
}

// copyTables publishes every table of from to to, in name order.
func copyTables(ctx context.Context, from ports.TableSource, to ports.TablePublisher) (int, error) {
	names, err := from.Tables(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tables: %w", err)
	}
	for _, name := range names {
		rows, err := from.Rows(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", name, err)
		}
		if err := to.Publish(ctx, name, rows); err != nil {
			return 0, fmt.Errorf("publish %s: %w", name, err)
		}
	}
	return len(names), nil
}
