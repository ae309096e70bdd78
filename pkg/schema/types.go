package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Kind classifies a Type.
type Kind uint8

const (
	KindInt32 Kind = iota + 1
	KindInt64
	KindFloat32
	KindBool
	KindString
	KindTuple
	KindSlice
	KindObject
)

var kindNames = map[Kind]string{
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindBool:    "bool",
	KindString:  "string",
	KindTuple:   "tuple",
	KindSlice:   "slice",
	KindObject:  "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Integer reports whether values of this kind can serve as identifiers.
func (k Kind) Integer() bool { return k == KindInt32 || k == KindInt64 }

// Type defines the contract for field decoding.
// Decode checks a raw value and returns its normalized Go representation.
type Type interface {
	// Name returns the textual type name accepted by ParseType (e.g. "int32", "[float32;3]").
	Name() string
	Kind() Kind
	Decode(value any, mode Mode) (any, error)
}

// Container is implemented by types wrapping an element type (tuples and slices).
type Container interface {
	Type
	Elem() Type
}

// --- Scalars ---

// Int32Type accepts whole numbers within the int32 range.
type Int32Type struct{}

func (t *Int32Type) Name() string { return "int32" }
func (t *Int32Type) Kind() Kind   { return KindInt32 }

func (t *Int32Type) Decode(value any, _ Mode) (any, error) {
	i, ok := integer(value)
	if !ok {
		return nil, mismatch(t, value, "")
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return nil, mismatch(t, value, fmt.Sprintf("%d overflows int32", i))
	}
	return int32(i), nil
}

// Int64Type accepts whole numbers within the int64 range.
type Int64Type struct{}

func (t *Int64Type) Name() string { return "int64" }
func (t *Int64Type) Kind() Kind   { return KindInt64 }

func (t *Int64Type) Decode(value any, _ Mode) (any, error) {
	i, ok := integer(value)
	if !ok {
		return nil, mismatch(t, value, "")
	}
	return i, nil
}

// Float32Type accepts any JSON/YAML number.
type Float32Type struct{}

func (t *Float32Type) Name() string { return "float32" }
func (t *Float32Type) Kind() Kind   { return KindFloat32 }

func (t *Float32Type) Decode(value any, _ Mode) (any, error) {
	switch v := value.(type) {
	case float32:
		return v, nil
	case float64:
		return float32(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, mismatch(t, value, err.Error())
		}
		return float32(f), nil
	}
	if i, ok := integer(value); ok {
		return float32(i), nil
	}
	return nil, mismatch(t, value, "")
}

// BoolType accepts booleans only.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }
func (t *BoolType) Kind() Kind   { return KindBool }

func (t *BoolType) Decode(value any, _ Mode) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, mismatch(t, value, "")
	}
	return b, nil
}

// StringType accepts strings only.
type StringType struct{}

func (t *StringType) Name() string { return "string" }
func (t *StringType) Kind() Kind   { return KindString }

func (t *StringType) Decode(value any, _ Mode) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, mismatch(t, value, "")
	}
	return s, nil
}

// --- Containers ---

// TupleType is a fixed-arity sequence, e.g. a 3-component vector.
type TupleType struct {
	elem  Type
	arity int
}

func (t *TupleType) Name() string { return fmt.Sprintf("[%s;%d]", t.elem.Name(), t.arity) }
func (t *TupleType) Kind() Kind   { return KindTuple }
func (t *TupleType) Elem() Type   { return t.elem }

// Arity returns the exact number of elements required.
func (t *TupleType) Arity() int { return t.arity }

func (t *TupleType) Decode(value any, mode Mode) (any, error) {
	elems, ok := elements(value)
	if !ok {
		return nil, mismatch(t, value, "")
	}
	if len(elems) != t.arity {
		return nil, mismatch(t, value, fmt.Sprintf("expected %d elements, got %d", t.arity, len(elems)))
	}
	return decodeElements(t.elem, elems, mode)
}

// SliceType is a variable-length list; zero elements is valid.
type SliceType struct {
	elem Type
}

func (t *SliceType) Name() string { return fmt.Sprintf("[%s]", t.elem.Name()) }
func (t *SliceType) Kind() Kind   { return KindSlice }
func (t *SliceType) Elem() Type   { return t.elem }

func (t *SliceType) Decode(value any, mode Mode) (any, error) {
	elems, ok := elements(value)
	if !ok {
		return nil, mismatch(t, value, "")
	}
	return decodeElements(t.elem, elems, mode)
}

// ObjectType is a nested record governed by its own Schema.
type ObjectType struct {
	schema *Schema
}

func (t *ObjectType) Name() string { return "object" }
func (t *ObjectType) Kind() Kind   { return KindObject }

// Schema returns the nested schema.
func (t *ObjectType) Schema() *Schema { return t.schema }

func (t *ObjectType) Decode(value any, mode Mode) (any, error) {
	raw, ok := mapping(value)
	if !ok {
		return nil, mismatch(t, value, "")
	}
	rec, errs := decodeRecord(t.schema, raw, mode, false)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return rec, nil
}

// --- Factory Functions ---

// Int32 creates a 32-bit integer type.
func Int32() Type { return &Int32Type{} }

// Int64 creates a 64-bit integer type.
func Int64() Type { return &Int64Type{} }

// Float32 creates a single-precision float type.
func Float32() Type { return &Float32Type{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// String creates a text type.
func String() Type { return &StringType{} }

// Tuple creates a fixed-arity tuple of elem.
func Tuple(elem Type, arity int) Type {
	return &TupleType{elem: elem, arity: arity}
}

// Slice creates a variable-length list of elem.
func Slice(elem Type) Type {
	return &SliceType{elem: elem}
}

// Object creates a nested record type.
func Object(s *Schema) Type {
	return &ObjectType{schema: s}
}

// --- helpers ---

func integer(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		// Only integer literals: "1.0" and "1e2" are floats.
		if i, err := v.Int64(); err == nil {
			return i, true
		}
	}
	// Floats never satisfy an integer kind, even without a fractional part.
	return 0, false
}

func elements(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func mapping(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Record:
		return v, true
	}
	return nil, false
}

func decodeElements(elem Type, elems []any, mode Mode) (any, error) {
	vals := make([]any, len(elems))
	for i, raw := range elems {
		v, err := elem.Decode(raw, mode)
		if err != nil {
			return nil, asFieldError(elem, raw, err).within(fmt.Sprintf("[%d]", i))
		}
		vals[i] = v
	}
	return pack(elem, vals), nil
}

// pack converts decoded elements into a typed slice where the element kind allows it.
func pack(elem Type, vals []any) any {
	switch elem.Kind() {
	case KindInt32:
		return packAs[int32](vals)
	case KindInt64:
		return packAs[int64](vals)
	case KindFloat32:
		return packAs[float32](vals)
	case KindBool:
		return packAs[bool](vals)
	case KindString:
		return packAs[string](vals)
	case KindObject:
		return packAs[Record](vals)
	}
	return vals
}

func packAs[T any](vals []any) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = v.(T)
	}
	return out
}
