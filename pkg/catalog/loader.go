package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/aretw0/tabula/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// Loader builds catalogs from a TableSource.
type Loader struct {
	defs        []Definition
	mode        schema.Mode
	concurrency int
	hooks       Hooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Loader.
type Option func(*Loader)

// WithDefinitions appends table definitions.
func WithDefinitions(defs ...Definition) Option {
	return func(l *Loader) {
		l.defs = append(l.defs, defs...)
	}
}

// WithMode selects the decode profile (default: schema.Strict).
func WithMode(mode schema.Mode) Option {
	return func(l *Loader) {
		l.mode = mode
	}
}

// WithConcurrency bounds the number of tables loaded in parallel (default: GOMAXPROCS).
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.concurrency = n
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(l *Loader) {
		l.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		mode:        schema.Strict,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.NewNop()
	}
	if l.concurrency < 1 {
		l.concurrency = 1
	}
	return l
}

// Definitions returns the configured definitions.
func (l *Loader) Definitions() []Definition {
	out := make([]Definition, len(l.defs))
	copy(out, l.defs)
	return out
}

// Mode returns the decode profile.
func (l *Loader) Mode() schema.Mode { return l.mode }

// Load reads, decodes and indexes every defined table.
// Any table failure fails the whole load; the returned error joins the failure of
// every table that did not load, and no Catalog is returned.
func (l *Loader) Load(ctx context.Context, src ports.TableSource) (*Catalog, error) {
	if err := l.check(); err != nil {
		return nil, err
	}

	start := time.Now()
	tables := make([]*Table, len(l.defs))
	errs := make([]error, len(l.defs))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, def := range l.defs {
		g.Go(func() error {
			tables[i], errs[i] = l.loadTable(ctx, src, def)
			return nil
		})
	}
	_ = g.Wait() // workers report through errs

	err := errors.Join(errs...)
	failed := 0
	for _, e := range errs {
		if e != nil {
			failed++
		}
	}
	if l.hooks.OnCatalogLoaded != nil {
		l.hooks.OnCatalogLoaded(ctx, &CatalogEvent{
			Timestamp: time.Now(),
			Tables:    len(l.defs),
			Failed:    failed,
			Duration:  time.Since(start),
		})
	}
	if err != nil {
		l.logger.Error("catalog load failed", "tables", len(l.defs), "failed", failed, "error", err)
		return nil, err
	}

	c := newCatalog(l.mode, tables)
	l.logger.Info("catalog loaded", "tables", c.Len(), "mode", l.mode.String(), "duration", time.Since(start))
	return c, nil
}

func (l *Loader) loadTable(ctx context.Context, src ports.TableSource, def Definition) (*Table, error) {
	start := time.Now()
	t, err := l.readAndBuild(ctx, src, def)

	evt := &TableEvent{
		Timestamp: time.Now(),
		Table:     def.Name,
		Duration:  time.Since(start),
		Err:       err,
	}
	if err != nil {
		l.logger.Error("table load failed", "table", def.Name, "error", err)
		if l.hooks.OnTableFailed != nil {
			l.hooks.OnTableFailed(ctx, evt)
		}
		return nil, err
	}

	evt.Records = t.Len()
	l.logger.Debug("table loaded", "table", def.Name, "records", evt.Records, "duration", evt.Duration)
	if l.hooks.OnTableLoaded != nil {
		l.hooks.OnTableLoaded(ctx, evt)
	}
	return t, nil
}

func (l *Loader) readAndBuild(ctx context.Context, src ports.TableSource, def Definition) (*Table, error) {
	rows, err := src.Rows(ctx, def.Name)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", def.Name, err)
	}
	return buildTable(def, rows, l.mode)
}

func (l *Loader) check() error {
	if len(l.defs) == 0 {
		return fmt.Errorf("no table definitions")
	}
	seen := make(map[string]bool, len(l.defs))
	for _, def := range l.defs {
		if err := def.check(); err != nil {
			return err
		}
		if seen[def.Name] {
			return fmt.Errorf("table %s defined twice", def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}
