package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is the declarative, serializable form of a Schema.
type Spec struct {
	Name   string      `json:"name" yaml:"name"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// FieldSpec describes one field. Object holds the nested spec for "object" and "[object]" types.
type FieldSpec struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Key        bool   `json:"key,omitempty" yaml:"key,omitempty"`
	StrictOnly bool   `json:"strict_only,omitempty" yaml:"strict_only,omitempty"`
	Object     *Spec  `json:"object,omitempty" yaml:"object,omitempty"`
}

// Spec returns the declarative form of s.
func (s *Schema) Spec() Spec {
	spec := Spec{Name: s.name, Fields: make([]FieldSpec, len(s.fields))}
	for i, f := range s.fields {
		fs := FieldSpec{
			Name:       f.Name,
			Type:       f.Type.Name(),
			Key:        f.Key,
			StrictOnly: f.Visibility == VisibilityStrictOnly,
		}
		if nested := objectSchema(f.Type); nested != nil {
			ns := nested.Spec()
			fs.Object = &ns
		}
		spec.Fields[i] = fs
	}
	return spec
}

// Build compiles the spec into a Schema.
func (sp Spec) Build() (*Schema, error) {
	fields := make([]Field, len(sp.Fields))
	for i, fs := range sp.Fields {
		t, err := parseType(fs.Type, func() (Type, error) {
			if fs.Object == nil {
				return nil, fmt.Errorf("object type requires a nested schema")
			}
			nested, err := fs.Object.Build()
			if err != nil {
				return nil, err
			}
			return Object(nested), nil
		})
		if err != nil {
			return nil, fmt.Errorf("schema %s: field %s: %w", sp.Name, fs.Name, err)
		}
		fields[i] = Field{Name: fs.Name, Type: t, Key: fs.Key}
		if fs.StrictOnly {
			fields[i].Visibility = VisibilityStrictOnly
		}
	}
	return New(sp.Name, fields...)
}

// ParseSpec reads a schema declaration in YAML (or JSON, which YAML accepts).
// Unknown keys in the declaration are rejected.
func ParseSpec(data []byte) (*Schema, error) {
	var spec Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return spec.Build()
}

// ParseType converts a type name to a Type.
// Supports "int32", "int64", "float32", "bool", "string", lists "[int32]" and
// fixed-arity tuples "[float32;3]". Object types need a Spec.
func ParseType(typeStr string) (Type, error) {
	return parseType(typeStr, func() (Type, error) {
		return nil, fmt.Errorf("object type requires a nested schema")
	})
}

func parseType(typeStr string, object func() (Type, error)) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	// Containers: [elem] or [elem;N]
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		inner := typeStr[1 : len(typeStr)-1]
		if idx := strings.LastIndex(inner, ";"); idx >= 0 && !strings.Contains(inner[idx:], "]") {
			arity, err := strconv.Atoi(strings.TrimSpace(inner[idx+1:]))
			if err != nil || arity <= 0 {
				return nil, fmt.Errorf("invalid tuple arity in %q", typeStr)
			}
			elem, err := parseType(inner[:idx], object)
			if err != nil {
				return nil, err
			}
			return Tuple(elem, arity), nil
		}
		elem, err := parseType(inner, object)
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	switch typeStr {
	case "int32":
		return Int32(), nil
	case "int64":
		return Int64(), nil
	case "float32":
		return Float32(), nil
	case "bool":
		return Bool(), nil
	case "string":
		return String(), nil
	case "object":
		return object()
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// MarshalJSON serializes the schema as its Spec.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Spec())
}

// UnmarshalJSON deserializes the schema from its Spec.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return err
	}
	built, err := spec.Build()
	if err != nil {
		return err
	}
	*s = *built
	return nil
}

// MarshalYAML serializes the schema as its Spec.
func (s *Schema) MarshalYAML() (any, error) {
	return s.Spec(), nil
}
