// Package xref checks identifier references between the tables of a loaded catalog.
//
// A Reference declares that a field of one table holds identifiers of another.
// Validate walks every record of every source table and reports each value that
// is neither a declared sentinel nor a key of the target table. Violations are
// advisory: the catalog stays usable and callers decide whether to escalate.
package xref
