package tabula

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/tables"
	"github.com/aretw0/tabula/pkg/xref"
)

// Result is the outcome of a successful load.
type Result struct {
	Catalog *catalog.Catalog
	// References is the advisory cross-reference report. It is never nil.
	References *xref.Report
	// Changes lists the records that differ from the previously served catalog.
	// It is set by Reloader and nil for a first load.
	Changes *catalog.Diff
}

type options struct {
	mode        schema.Mode
	defs        []catalog.Definition
	refs        []xref.Reference
	customDefs  bool
	customRefs  bool
	strictRefs  bool
	concurrency int
	hooks       catalog.Hooks
	logger      *slog.Logger
}

// Option defines a functional option for Load.
type Option func(*options)

// WithMode selects the schema profile (default: schema.Strict).
func WithMode(mode schema.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithDefinitions replaces the built-in game tables with custom definitions.
func WithDefinitions(defs ...catalog.Definition) Option {
	return func(o *options) {
		o.defs = append(o.defs, defs...)
		o.customDefs = true
	}
}

// WithReferences replaces the built-in cross-references.
func WithReferences(refs ...xref.Reference) Option {
	return func(o *options) {
		o.refs = append(o.refs, refs...)
		o.customRefs = true
	}
}

// WithStrictReferences makes dangling references fail the load.
func WithStrictReferences(strict bool) Option {
	return func(o *options) {
		o.strictRefs = strict
	}
}

// WithConcurrency bounds the number of tables loaded in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithHooks registers load observability hooks.
func WithHooks(hooks catalog.Hooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if !o.customDefs {
		o.defs = tables.Definitions(o.mode)
	}
	if !o.customRefs && !o.customDefs {
		o.refs = tables.References()
	}
	// Ensure logger is initialized so the loader gets a usable one.
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	return o
}

// Load builds a catalog from src and validates its cross-references.
//
// Every table is loaded (concurrently) before references are checked. A table
// that fails to load fails the whole call. Dangling references are logged as
// warnings and returned on the Result unless WithStrictReferences is set.
func Load(ctx context.Context, src ports.TableSource, opts ...Option) (*Result, error) {
	return newOptions(opts).load(ctx, src)
}

func (o *options) load(ctx context.Context, src ports.TableSource) (*Result, error) {
	loaderOpts := []catalog.Option{
		catalog.WithMode(o.mode),
		catalog.WithDefinitions(o.defs...),
		catalog.WithHooks(o.hooks),
		catalog.WithLogger(o.logger),
	}
	if o.concurrency > 0 {
		loaderOpts = append(loaderOpts, catalog.WithConcurrency(o.concurrency))
	}

	cat, err := catalog.NewLoader(loaderOpts...).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	report, err := xref.Validate(cat, o.refs)
	if err != nil {
		return nil, fmt.Errorf("validate references: %w", err)
	}
	for _, v := range report.Violations {
		o.logger.Warn("dangling reference",
			"table", v.Source,
			"id", v.SourceID,
			"field", v.Field,
			"target", v.Target,
			"missing", v.Missing,
		)
	}
	if o.strictRefs {
		if err := report.Err(); err != nil {
			return nil, err
		}
	}
	return &Result{Catalog: cat, References: report}, nil
}
