package tables

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/xref"
	"gopkg.in/yaml.v3"
)

// ReferencesFile is the reserved base name of the reference declarations in a
// definitions directory (references.yaml, references.yml or references.json).
const ReferencesFile = "references"

// Set is a group of table definitions and the references between them.
type Set struct {
	Definitions []catalog.Definition
	References  []xref.Reference
}

// Schemas returns the declared schemas indexed by table name.
func (s Set) Schemas() map[string]*schema.Schema {
	out := make(map[string]*schema.Schema, len(s.Definitions))
	for _, d := range s.Definitions {
		out[d.Name] = d.Schema
	}
	return out
}

// Builtin returns the game tables for mode.
func Builtin(mode schema.Mode) Set {
	return Set{Definitions: Definitions(mode), References: References()}
}

// ReadDir reads table definitions from dir. Every .yaml/.yml file declares one
// schema (name, fields); .json files hold the same declaration in JSON. The
// table is named after its schema. A references file, if present, holds a
// list of xref.Reference. Definition files carry no typed views.
func ReadDir(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Set{}, fmt.Errorf("read definitions: %w", err)
	}

	var set Set
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return Set{}, fmt.Errorf("read definitions: %w", err)
		}

		if strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())) == ReferencesFile {
			refs, err := parseReferences(data)
			if err != nil {
				return Set{}, fmt.Errorf("%s: %w", path, err)
			}
			set.References = append(set.References, refs...)
			continue
		}

		s, err := parseSchema(data, ext)
		if err != nil {
			return Set{}, fmt.Errorf("%s: %w", path, err)
		}
		if prev, dup := seen[s.Name()]; dup {
			return Set{}, fmt.Errorf("%s: table %s already declared in %s", path, s.Name(), prev)
		}
		seen[s.Name()] = path
		set.Definitions = append(set.Definitions, catalog.Define(s.Name(), s))
	}

	if len(set.Definitions) == 0 {
		return Set{}, fmt.Errorf("read definitions: no table definitions in %s", dir)
	}
	sort.Slice(set.Definitions, func(i, j int) bool { return set.Definitions[i].Name < set.Definitions[j].Name })
	return set, nil
}

func parseSchema(data []byte, ext string) (*schema.Schema, error) {
	if ext == ".json" {
		s := new(schema.Schema)
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse schema: %w", err)
		}
		return s, nil
	}
	return schema.ParseSpec(data)
}

func parseReferences(data []byte) ([]xref.Reference, error) {
	var refs []xref.Reference
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&refs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse references: %w", err)
	}
	for i, r := range refs {
		if r.Source == "" || r.Field == "" || r.Target == "" {
			return nil, fmt.Errorf("reference %d: source, field and target are required", i)
		}
	}
	return refs, nil
}
