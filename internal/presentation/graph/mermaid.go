package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/tabula/pkg/xref"
)

// GenerateMermaid produces a Mermaid flowchart of the references between tables.
// Loaded tables are rectangles; targets that are not loaded become dashed
// ((circles)). Each reference is an edge labelled with its field, and with the
// number of dangling values when report is given.
func GenerateMermaid(tables []string, refs []xref.Reference, report *xref.Report) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	loaded := make(map[string]bool, len(tables))
	for _, name := range tables {
		loaded[name] = true
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", sanitizeMermaidID(name), name))
	}

	var missing []string
	for _, ref := range refs {
		if !loaded[ref.Target] {
			loaded[ref.Target] = true
			missing = append(missing, ref.Target)
			sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", sanitizeMermaidID(ref.Target), ref.Target))
		}
	}

	dangling := make(map[string]int)
	if report != nil {
		for _, v := range report.Violations {
			dangling[v.Source+"\x00"+v.Field]++
		}
	}

	var broken []string
	for _, ref := range refs {
		label := ref.Field
		if n := dangling[ref.Source+"\x00"+ref.Field]; n > 0 {
			label = fmt.Sprintf("%s (%d dangling)", ref.Field, n)
			broken = append(broken, ref.Source)
		}
		// Escape double quotes for the Mermaid label
		label = strings.ReplaceAll(label, "\"", "'")

		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if len(ref.Sentinels) > 0 {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(ref.Source), arrow, sanitizeMermaidID(ref.Target)))
	}

	if len(missing) > 0 || len(broken) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef missing fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef dangling fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		for _, name := range missing {
			sb.WriteString(fmt.Sprintf("    class %s missing;\n", sanitizeMermaidID(name)))
		}
		for _, name := range dedupe(broken) {
			sb.WriteString(fmt.Sprintf("    class %s dangling;\n", sanitizeMermaidID(name)))
		}
	}

	return sb.String()
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
