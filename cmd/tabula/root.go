package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/config"
	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/adapters/file"
	"github.com/aretw0/tabula/pkg/adapters/redis"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/aretw0/tabula/pkg/tables"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tabula",
	Short: "Tabula loads and validates typed game data tables",
	Long: `Tabula reads game data tables from a directory or Redis, decodes them against
their schemas, checks cross-table references and serves the resulting catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The command context is cancelled on interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./"+config.DefaultFile+" if present)")
	flags.String("dir", ".", "Directory containing the table files")
	flags.String("source", config.SourceFile, "Table source: 'file' or 'redis'")
	flags.String("redis", "localhost:6379", "Redis address (redis source)")
	flags.String("definitions", "", "Directory of table declarations (default: the built-in game tables)")
	flags.String("mode", "strict", "Decode mode: 'strict' (complete) or 'lenient' (minimal)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
}

// loadConfig reads the config file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("dir", &cfg.Source.Dir)
	override("source", &cfg.Source.Type)
	override("redis", &cfg.Source.Redis.Addr)
	override("definitions", &cfg.Definitions)
	override("mode", &cfg.Mode)
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	if flags.Lookup("strict-references") != nil && flags.Changed("strict-references") {
		cfg.StrictReferences, _ = flags.GetBool("strict-references")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := logging.ParseLevel(cfg.Log.Level)
	return logging.NewWithFormat(os.Stderr, level, cfg.Log.Format)
}

// openSource returns the configured table source and a function releasing it.
func openSource(cfg *config.Config) (ports.TableSource, func(), error) {
	switch cfg.Source.Type {
	case config.SourceRedis:
		r := cfg.Source.Redis
		src := redis.New(r.Addr, r.Password, r.DB, redis.WithPrefix(r.Prefix))
		return src, func() { _ = src.Close() }, nil
	case config.SourceFile:
		src := file.New(cfg.Source.Dir)
		src.Debounce = cfg.Server.Debounce
		return src, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
}

// tableSet returns the declared tables: the definitions directory when one is
// configured, the built-in game tables otherwise.
func tableSet(cfg *config.Config) (tables.Set, error) {
	if cfg.Definitions == "" {
		return tables.Builtin(cfg.SchemaMode()), nil
	}
	return tables.ReadDir(cfg.Definitions)
}

// loadOptions maps the configuration onto library options.
func loadOptions(cfg *config.Config, logger *slog.Logger) ([]tabula.Option, error) {
	set, err := tableSet(cfg)
	if err != nil {
		return nil, err
	}
	return []tabula.Option{
		tabula.WithDefinitions(set.Definitions...),
		tabula.WithReferences(set.References...),
		tabula.WithMode(cfg.SchemaMode()),
		tabula.WithStrictReferences(cfg.StrictReferences),
		tabula.WithConcurrency(cfg.Concurrency),
		tabula.WithLogger(logger),
	}, nil
}

// loadCatalog is the shared path of the read-only commands.
func loadCatalog(cmd *cobra.Command) (*tabula.Result, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closeSrc()

	res, err := loadFrom(cmd.Context(), src, cfg, newLogger(cfg))
	if err != nil {
		return nil, cfg, err
	}
	return res, cfg, nil
}

func loadFrom(ctx context.Context, src ports.TableSource, cfg *config.Config, logger *slog.Logger) (*tabula.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts, err := loadOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	return tabula.Load(ctx, src, opts...)
}
