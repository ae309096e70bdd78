package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/table"
)

var (
	// ErrUnknownTable is returned when a table name is not part of the catalog.
	ErrUnknownTable = errors.New("unknown table")
	// ErrUnknownView is returned by Lookup when a table has no view of the requested type.
	ErrUnknownView = errors.New("unknown view")
)

// Catalog is the immutable set of loaded tables.
type Catalog struct {
	mode   schema.Mode
	names  []string
	tables map[string]*Table
}

// Table is the read-only view of one loaded table.
type Table struct {
	def     Definition
	schema  *schema.Schema
	records *table.Table[schema.Record]
	typed   map[reflect.Type]any
}

// Mode returns the profile the catalog was decoded with.
func (c *Catalog) Mode() schema.Mode { return c.mode }

// Names returns the table names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of tables.
func (c *Catalog) Len() int { return len(c.names) }

// Table returns the named table.
func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Get returns the record with identifier id in the named table.
func (c *Catalog) Get(name string, id int64) (schema.Record, bool) {
	t, ok := c.tables[name]
	if !ok {
		return nil, false
	}
	return t.Get(id)
}

// Lookup returns the typed view of a table declared with As[T].
func Lookup[T any](c *Catalog, name string) (*table.Table[T], error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	typ := reflect.TypeFor[T]()
	v, ok := t.typed[typ]
	if !ok {
		return nil, fmt.Errorf("%w: table %s has no %s view", ErrUnknownView, name, typ)
	}
	return v.(*table.Table[T]), nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.def.Name }

// Schema returns the schema profile the records were decoded with.
func (t *Table) Schema() *schema.Schema { return t.schema }

// Get returns the record with identifier id.
func (t *Table) Get(id int64) (schema.Record, bool) { return t.records.Get(id) }

// All returns every record in input order.
func (t *Table) All() []schema.Record { return t.records.All() }

// IDs returns every identifier, ascending.
func (t *Table) IDs() []int64 { return t.records.IDs() }

// Len returns the number of records.
func (t *Table) Len() int { return t.records.Len() }

func newCatalog(mode schema.Mode, tables []*Table) *Catalog {
	c := &Catalog{
		mode:   mode,
		names:  make([]string, 0, len(tables)),
		tables: make(map[string]*Table, len(tables)),
	}
	for _, t := range tables {
		c.names = append(c.names, t.Name())
		c.tables[t.Name()] = t
	}
	sort.Strings(c.names)
	return c
}

// buildTable decodes and indexes one table, then derives its typed views.
func buildTable(def Definition, rows []map[string]any, mode schema.Mode) (*Table, error) {
	profile := def.Schema.Profile(mode)
	records, err := table.Load(def.Name, rows, func(raw map[string]any) (schema.Record, error) {
		return schema.Decode(def.Schema, raw, mode)
	}, schema.KeyFunc(def.Schema))
	if err != nil {
		// Decode stops at the first problem; report every problem of the offending row.
		var le *table.LoadError
		if errors.As(err, &le) && le.Position < len(rows) {
			if all := schema.Validate(def.Schema, rows[le.Position], mode); all != nil {
				le.Err = all
			}
		}
		return nil, err
	}

	t := &Table{
		def:     def,
		schema:  profile,
		records: records,
		typed:   make(map[reflect.Type]any, len(def.Views)),
	}
	for _, v := range def.Views {
		typed, err := v.build(records)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", v.typ, err)
		}
		t.typed[v.typ] = typed
	}
	return t, nil
}
