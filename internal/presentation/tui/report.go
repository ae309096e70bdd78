package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/table"
	"github.com/aretw0/tabula/pkg/xref"
)

// maxViolations caps how many dangling references the report lists.
const maxViolations = 20

// LoadReport renders a markdown summary of a loaded catalog and its
// reference report.
func LoadReport(c *catalog.Catalog, report *xref.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Catalog (%s)\n\n", c.Mode())
	sb.WriteString("| Table | Records | Fields |\n")
	sb.WriteString("|---|---:|---:|\n")
	for _, name := range c.Names() {
		t, _ := c.Table(name)
		fmt.Fprintf(&sb, "| %s | %d | %d |\n", name, t.Len(), t.Schema().Len())
	}

	if report == nil {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n## References\n\n%d values checked, %d dangling.\n", report.Checked, len(report.Violations))
	if report.OK() {
		return sb.String()
	}

	sb.WriteString("\n")
	for i, v := range report.Violations {
		if i == maxViolations {
			fmt.Fprintf(&sb, "- ... and %d more\n", len(report.Violations)-maxViolations)
			break
		}
		fmt.Fprintf(&sb, "- `%s`\n", v)
	}
	return sb.String()
}

// FailureReport renders a markdown list of the per-table failures in err.
// Rows that failed to decode list every field problem, not just the first.
func FailureReport(err error) string {
	var sb strings.Builder
	sb.WriteString("# Load failed\n\n")
	for _, e := range tableErrors(err) {
		var le *table.LoadError
		if !errors.As(e, &le) {
			fmt.Fprintf(&sb, "- %s\n", e)
			continue
		}
		fmt.Fprintf(&sb, "- **%s** record %d\n", le.Table, le.Position)
		problems := schema.ValidationErrors(le.Err)
		if len(problems) == 0 {
			problems = []error{le.Err}
		}
		for _, p := range problems {
			fmt.Fprintf(&sb, "  - `%s`\n", p)
		}
	}
	return sb.String()
}

// tableErrors unwraps single-error wrappers down to the joined per-table errors.
func tableErrors(err error) []error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if _, ok := e.(*table.LoadError); ok {
			break
		}
		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			return multi.Unwrap()
		}
	}
	return []error{err}
}

// DescribeSchema renders the fields of a schema as a markdown table.
// Nested objects are flattened into dotted paths.
func DescribeSchema(s *schema.Schema) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", s.Name())
	sb.WriteString("| Field | Raw name | Type | Visibility |\n")
	sb.WriteString("|---|---|---|---|\n")

	for _, r := range describeFields("", s.Fields()) {
		sb.WriteString(r)
	}
	return sb.String()
}

func describeFields(prefix string, fields []schema.Field) []string {
	var rows []string
	for _, f := range fields {
		name := prefix + f.Name
		marker := ""
		if f.Key {
			marker = " (key)"
		}
		rows = append(rows, fmt.Sprintf("| %s%s | %s | %s | %s |\n", name, marker, f.RawName(), f.Type.Name(), f.Visibility))
		if inner := nested(f.Type); inner != nil {
			rows = append(rows, describeFields(name+".", inner.Fields())...)
		}
	}
	return rows
}

// nested returns the object schema wrapped by t, looking through containers.
func nested(t schema.Type) *schema.Schema {
	for {
		switch v := t.(type) {
		case *schema.ObjectType:
			return v.Schema()
		case schema.Container:
			t = v.Elem()
		default:
			return nil
		}
	}
}
