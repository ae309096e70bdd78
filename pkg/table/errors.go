package table

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentifier matches any *DuplicateIdentifierError.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

// LoadError reports the row that stopped a table load.
type LoadError struct {
	Table    string
	Position int // zero-based input index
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("table %s: record %d: %v", e.Table, e.Position, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DuplicateIdentifierError reports two rows sharing a primary identifier.
type DuplicateIdentifierError struct {
	Table  string
	ID     int64
	First  int
	Second int
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("table %s: duplicate identifier %d at records %d and %d", e.Table, e.ID, e.First, e.Second)
}

func (e *DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier
}
