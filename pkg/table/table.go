package table

import (
	"slices"
)

// Decoder converts one raw row into a T.
type Decoder[T any] func(raw map[string]any) (T, error)

// Table is an immutable identifier -> row lookup that preserves input order.
type Table[T any] struct {
	name  string
	rows  []T
	ids   []int64
	index map[int64]int
}

// Load decodes rows in input order and indexes them by id.
// The first decode failure aborts with a *LoadError; a repeated identifier aborts
// with a *DuplicateIdentifierError.
func Load[T any](name string, rows []map[string]any, decode Decoder[T], id func(T) int64) (*Table[T], error) {
	decoded := make([]T, 0, len(rows))
	for i, raw := range rows {
		row, err := decode(raw)
		if err != nil {
			return nil, &LoadError{Table: name, Position: i, Err: err}
		}
		decoded = append(decoded, row)
	}
	return build(name, decoded, id)
}

// New indexes already-typed rows.
func New[T any](name string, rows []T, id func(T) int64) (*Table[T], error) {
	return build(name, slices.Clone(rows), id)
}

// Convert derives a table of another row type, keeping order and identifiers.
func Convert[S, T any](src *Table[S], fn func(S) (T, error)) (*Table[T], error) {
	out := &Table[T]{
		name:  src.name,
		rows:  make([]T, len(src.rows)),
		ids:   src.ids,
		index: src.index,
	}
	for i, row := range src.rows {
		converted, err := fn(row)
		if err != nil {
			return nil, &LoadError{Table: src.name, Position: i, Err: err}
		}
		out.rows[i] = converted
	}
	return out, nil
}

func build[T any](name string, rows []T, id func(T) int64) (*Table[T], error) {
	t := &Table[T]{
		name:  name,
		rows:  rows,
		ids:   make([]int64, len(rows)),
		index: make(map[int64]int, len(rows)),
	}
	for i, row := range rows {
		key := id(row)
		if first, dup := t.index[key]; dup {
			return nil, &DuplicateIdentifierError{Table: name, ID: key, First: first, Second: i}
		}
		t.index[key] = i
		t.ids[i] = key
	}
	return t, nil
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table[T]) Len() int { return len(t.rows) }

// Get returns the row with the given identifier.
func (t *Table[T]) Get(id int64) (T, bool) {
	i, ok := t.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.rows[i], true
}

// Has reports whether id exists in the table.
func (t *Table[T]) Has(id int64) bool {
	_, ok := t.index[id]
	return ok
}

// Position returns the input position of the row with the given identifier.
func (t *Table[T]) Position(id int64) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// All returns the rows in input order. The slice is a copy.
func (t *Table[T]) All() []T {
	return slices.Clone(t.rows)
}

// IDs returns every identifier in ascending order.
func (t *Table[T]) IDs() []int64 {
	out := slices.Clone(t.ids)
	slices.Sort(out)
	return out
}
