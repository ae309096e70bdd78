package xref

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/schema"
)

// ErrDanglingReference matches the error returned by Report.Err.
var ErrDanglingReference = errors.New("dangling reference")

// Reference declares that Field of the Source table holds identifiers of the Target table.
// Field is a dotted schema path ("main_prop.rand_group_id") and may cross nested
// records and lists of records; its leaf must be an integer or a list of integers.
// Values listed in Sentinels mean "no reference" and are not checked.
type Reference struct {
	Source    string  `json:"source" yaml:"source"`
	Field     string  `json:"field" yaml:"field"`
	Target    string  `json:"target" yaml:"target"`
	Sentinels []int64 `json:"sentinels,omitempty" yaml:"sentinels,omitempty"`
}

func (r Reference) String() string {
	return fmt.Sprintf("%s.%s -> %s", r.Source, r.Field, r.Target)
}

// Violation is one identifier with no matching record in the target table.
type Violation struct {
	Source   string `json:"source"`
	SourceID int64  `json:"source_id"`
	Field    string `json:"field"`
	Target   string `json:"target"`
	Missing  int64  `json:"missing"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%d].%s: %s %d does not exist", v.Source, v.SourceID, v.Field, v.Target, v.Missing)
}

// Report is the outcome of a validation pass.
type Report struct {
	Checked    int         `json:"checked"` // non-sentinel values looked up
	Violations []Violation `json:"violations"`
}

// OK reports whether no violation was found.
func (r *Report) OK() bool { return len(r.Violations) == 0 }

// Err returns nil when the report is clean, or an *Error listing every violation.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Violations: r.Violations}
}

// Error aggregates every dangling reference of a report.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d dangling references:", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

func (e *Error) Is(target error) bool { return target == ErrDanglingReference }

// Validate checks every reference against the catalog.
// A missing target table makes every non-sentinel value dangling. Declaration
// problems (unknown source table or field, non-integer field) are returned as an
// error rather than reported as violations.
func Validate(c *catalog.Catalog, refs []Reference) (*Report, error) {
	report := &Report{Violations: []Violation{}}
	for _, ref := range refs {
		if err := check(c, ref, report); err != nil {
			return nil, fmt.Errorf("reference %s: %w", ref, err)
		}
	}
	sort.SliceStable(report.Violations, func(i, j int) bool {
		a, b := report.Violations[i], report.Violations[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.Missing < b.Missing
	})
	return report, nil
}

func check(c *catalog.Catalog, ref Reference, report *Report) error {
	src, ok := c.Table(ref.Source)
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrUnknownTable, ref.Source)
	}
	field, ok := src.Schema().Lookup(ref.Field)
	if !ok {
		return fmt.Errorf("schema %s has no field %s", src.Schema().Name(), ref.Field)
	}
	if !identifiers(field.Type) {
		return fmt.Errorf("field %s is %s, not an identifier", ref.Field, field.Type.Name())
	}
	key := schema.KeyFunc(src.Schema())
	target, hasTarget := c.Table(ref.Target)
	path := strings.Split(ref.Field, ".")

	for _, rec := range src.All() {
		for _, id := range collect(rec, path) {
			if slices.Contains(ref.Sentinels, id) {
				continue
			}
			report.Checked++
			if hasTarget {
				if _, found := target.Get(id); found {
					continue
				}
			}
			report.Violations = append(report.Violations, Violation{
				Source:   ref.Source,
				SourceID: key(rec),
				Field:    ref.Field,
				Target:   ref.Target,
				Missing:  id,
			})
		}
	}
	return nil
}

// identifiers reports whether values of t are integers or lists of integers.
func identifiers(t schema.Type) bool {
	if t.Kind().Integer() {
		return true
	}
	if c, ok := t.(schema.Container); ok {
		return c.Elem().Kind().Integer()
	}
	return false
}

// collect gathers the integer values found at path, descending into nested
// records and lists of records.
func collect(rec schema.Record, path []string) []int64 {
	name := path[0]
	if len(path) > 1 {
		var out []int64
		if nested := rec.Object(name); nested != nil {
			out = append(out, collect(nested, path[1:])...)
		}
		for _, nested := range rec.Objects(name) {
			out = append(out, collect(nested, path[1:])...)
		}
		return out
	}

	switch v := rec[name].(type) {
	case int32:
		return []int64{int64(v)}
	case int64:
		return []int64{v}
	case []int32:
		out := make([]int64, len(v))
		for i, id := range v {
			out[i] = int64(id)
		}
		return out
	case []int64:
		return v
	}
	return nil
}
