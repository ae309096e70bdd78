package catalog

import (
	"fmt"
	"reflect"

	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/table"
)

// Definition declares one table of the catalog.
type Definition struct {
	Name   string
	Schema *schema.Schema
	Views  []View
}

// Define declares a table whose records are exposed as schema.Record, plus any typed views.
func Define(name string, s *schema.Schema, views ...View) Definition {
	return Definition{Name: name, Schema: s, Views: views}
}

// View derives a typed table from the decoded records of a table.
type View struct {
	typ   reflect.Type
	build func(*table.Table[schema.Record]) (any, error)
}

// Type returns the row type produced by the view.
func (v View) Type() reflect.Type { return v.typ }

// As declares a typed view whose rows are T structs bound with schema.Bind.
// Binding fails the load if T declares a field the record has no slot for, which
// is how a complete-profile struct refuses a minimal catalog.
func As[T any]() View {
	return View{
		typ: reflect.TypeFor[T](),
		build: func(records *table.Table[schema.Record]) (any, error) {
			return table.Convert(records, func(rec schema.Record) (T, error) {
				var out T
				err := schema.Bind(rec, &out)
				return out, err
			})
		},
	}
}

func (d Definition) check() error {
	if d.Name == "" {
		return fmt.Errorf("table definition has no name")
	}
	if d.Schema == nil {
		return fmt.Errorf("table %s: schema is nil", d.Name)
	}
	if _, ok := d.Schema.Key(); !ok {
		return fmt.Errorf("table %s: schema %s declares no key field", d.Name, d.Schema.Name())
	}
	seen := make(map[reflect.Type]bool, len(d.Views))
	for _, v := range d.Views {
		if v.build == nil {
			return fmt.Errorf("table %s: view was not created with As", d.Name)
		}
		if seen[v.typ] {
			return fmt.Errorf("table %s: duplicate view %s", d.Name, v.typ)
		}
		seen[v.typ] = true
	}
	return nil
}
