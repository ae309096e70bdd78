package ports

import (
	"context"
	"errors"
)

// ErrTableNotFound is returned by a TableSource that has no data for the requested table.
var ErrTableNotFound = errors.New("table not found")

// TableSource defines how raw table data reaches the loader.
// Rows use the authoring convention (PascalCase keys) and native-like values:
// numbers, strings, booleans, lists and nested maps.
type TableSource interface {
	// Rows returns the raw records of a table in input order.
	// It returns an error wrapping ErrTableNotFound if the table does not exist.
	Rows(ctx context.Context, table string) ([]map[string]any, error)

	// Tables lists the names of every table the source can supply, sorted.
	Tables(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for hot-reload functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying data changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// TablePublisher replaces the rows of a table in a writable backend.
type TablePublisher interface {
	Publish(ctx context.Context, table string, rows []map[string]any) error
}
