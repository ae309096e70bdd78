package catalog

import (
	"reflect"
	"sort"
)

// Diff represents the changes between two catalogs.
// It is designed to be serialized to JSON for reload notifications.
type Diff struct {
	// Tables holds one entry per table whose records differ, sorted by name.
	Tables []TableDiff `json:"tables,omitempty"`
}

// TableDiff lists the identifiers that were added, removed or modified in one table.
// A table present on only one side reports all of its identifiers as added or removed.
type TableDiff struct {
	Table   string  `json:"table"`
	Added   []int64 `json:"added,omitempty"`
	Removed []int64 `json:"removed,omitempty"`
	Changed []int64 `json:"changed,omitempty"`
}

// Compare calculates the difference between oldCat and newCat.
// If oldCat is nil, every record of newCat counts as added (initial load).
func Compare(oldCat, newCat *Catalog) *Diff {
	names := make(map[string]bool)
	if oldCat != nil {
		for _, n := range oldCat.names {
			names[n] = true
		}
	}
	if newCat != nil {
		for _, n := range newCat.names {
			names[n] = true
		}
	}

	diff := &Diff{}
	for name := range names {
		if td := diffTable(name, lookup(oldCat, name), lookup(newCat, name)); td != nil {
			diff.Tables = append(diff.Tables, *td)
		}
	}
	sort.Slice(diff.Tables, func(i, j int) bool { return diff.Tables[i].Table < diff.Tables[j].Table })
	return diff
}

// IsEmpty checks if the diff contains any changes.
func (d *Diff) IsEmpty() bool { return d == nil || len(d.Tables) == 0 }

// Changed returns the names of the tables that differ.
func (d *Diff) Changed() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.Tables))
	for i, t := range d.Tables {
		out[i] = t.Table
	}
	return out
}

func lookup(c *Catalog, name string) *Table {
	if c == nil {
		return nil
	}
	t, _ := c.Table(name)
	return t
}

func diffTable(name string, old, new *Table) *TableDiff {
	td := &TableDiff{Table: name}

	if new != nil {
		// Check for Added or Modified
		for _, id := range new.IDs() {
			newRec, _ := new.Get(id)
			if old == nil {
				td.Added = append(td.Added, id)
				continue
			}
			oldRec, exists := old.Get(id)
			if !exists {
				td.Added = append(td.Added, id)
			} else if !reflect.DeepEqual(oldRec, newRec) {
				td.Changed = append(td.Changed, id)
			}
		}
	}

	// Check for Deletions
	if old != nil {
		for _, id := range old.IDs() {
			if new == nil {
				td.Removed = append(td.Removed, id)
				continue
			}
			if _, exists := new.Get(id); !exists {
				td.Removed = append(td.Removed, id)
			}
		}
	}

	if len(td.Added) == 0 && len(td.Removed) == 0 && len(td.Changed) == 0 {
		return nil
	}
	return td
}
