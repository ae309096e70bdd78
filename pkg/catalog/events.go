package catalog

import (
	"context"
	"time"
)

// TableEvent describes the outcome of loading one table.
type TableEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Table     string        `json:"table"`
	Records   int           `json:"records"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// CatalogEvent describes the outcome of a whole load pass.
type CatalogEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Tables    int           `json:"tables"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Hooks defines callbacks for load observability.
// Table callbacks run on loader workers and must be safe for concurrent use.
type Hooks struct {
	OnTableLoaded   func(context.Context, *TableEvent)
	OnTableFailed   func(context.Context, *TableEvent)
	OnCatalogLoaded func(context.Context, *CatalogEvent)
}

// Merge returns hooks that call h first, then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnTableLoaded:   chain(h.OnTableLoaded, other.OnTableLoaded),
		OnTableFailed:   chain(h.OnTableFailed, other.OnTableFailed),
		OnCatalogLoaded: chain(h.OnCatalogLoaded, other.OnCatalogLoaded),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
