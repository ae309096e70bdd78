package schema

import (
	"fmt"
	"strings"
)

// Field specifies one entry of a Schema.
type Field struct {
	Name       string // lower_snake schema name
	Type       Type
	Visibility Visibility
	Key        bool // primary identifier of the table
}

// RawName returns the PascalCase key this field is read from.
func (f Field) RawName() string { return RawName(f.Name) }

// Always declares a field present in every profile.
func Always(name string, t Type) Field {
	return Field{Name: name, Type: t, Visibility: VisibilityAlways}
}

// StrictOnly declares a field that exists only in the strict (build-complete) profile,
// typically display names, icon paths and descriptive text.
func StrictOnly(name string, t Type) Field {
	return Field{Name: name, Type: t, Visibility: VisibilityStrictOnly}
}

// Key declares the table's primary identifier. It must be an integer type.
func Key(name string, t Type) Field {
	f := Always(name, t)
	f.Key = true
	return f
}

// Schema is an ordered, immutable set of field specifications.
type Schema struct {
	name   string
	fields []Field
	byName map[string]int
	byRaw  map[string]int
	key    int
}

// New builds a schema. Field names must be unique lower_snake identifiers and at most
// one field may be a Key.
func New(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name is empty")
	}
	s := &Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		byName: make(map[string]int, len(fields)),
		byRaw:  make(map[string]int, len(fields)),
		key:    -1,
	}
	copy(s.fields, fields)

	for i, f := range s.fields {
		if err := checkName(f.Name); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("schema %s: field %q: type is nil", name, f.Name)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate field %q", name, f.Name)
		}
		s.byName[f.Name] = i
		s.byRaw[f.RawName()] = i

		if !f.Key {
			continue
		}
		if s.key >= 0 {
			return nil, fmt.Errorf("schema %s: multiple key fields (%q and %q)", name, s.fields[s.key].Name, f.Name)
		}
		if !f.Type.Kind().Integer() {
			return nil, fmt.Errorf("schema %s: key field %q must be an integer, got %s", name, f.Name, f.Type.Name())
		}
		if f.Visibility != VisibilityAlways {
			return nil, fmt.Errorf("schema %s: key field %q cannot be strict-only", name, f.Name)
		}
		s.key = i
	}
	return s, nil
}

// MustNew is like New but panics on error. Intended for package-level declarations.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the field specifications in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field looks up a field by its schema name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Key returns the primary identifier field, if declared.
func (s *Schema) Key() (Field, bool) {
	if s.key < 0 {
		return Field{}, false
	}
	return s.fields[s.key], true
}

// Lookup resolves a dotted schema path ("main_prop.rand_group_id") through nested
// objects and lists of objects.
func (s *Schema) Lookup(path string) (Field, bool) {
	segments := strings.Split(path, ".")
	current := s
	for i, seg := range segments {
		f, ok := current.Field(seg)
		if !ok {
			return Field{}, false
		}
		if i == len(segments)-1 {
			return f, true
		}
		nested := objectSchema(f.Type)
		if nested == nil {
			return Field{}, false
		}
		current = nested
	}
	return Field{}, false
}

// Minimal returns the build-minimal variant: every strict-only field is removed,
// recursively through nested objects.
func (s *Schema) Minimal() *Schema {
	fields := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Visibility == VisibilityStrictOnly {
			continue
		}
		f.Type = minimalType(f.Type)
		fields = append(fields, f)
	}
	// The subset of a valid schema is always valid.
	return MustNew(s.name, fields...)
}

// Profile returns the schema as seen under mode: s itself for Strict, Minimal for Lenient.
func (s *Schema) Profile(mode Mode) *Schema {
	if mode == Lenient {
		return s.Minimal()
	}
	return s
}

func minimalType(t Type) Type {
	switch v := t.(type) {
	case *ObjectType:
		return Object(v.schema.Minimal())
	case *SliceType:
		return Slice(minimalType(v.elem))
	case *TupleType:
		return Tuple(minimalType(v.elem), v.arity)
	}
	return t
}

// objectSchema returns the schema of an object or list-of-objects type.
func objectSchema(t Type) *Schema {
	switch v := t.(type) {
	case *ObjectType:
		return v.schema
	case *SliceType:
		return objectSchema(v.elem)
	}
	return nil
}
