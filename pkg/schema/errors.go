package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a decode failure.
type Code string

const (
	CodeMissingField Code = "missing_field"
	CodeTypeMismatch Code = "type_mismatch"
	CodeUnknownField Code = "unknown_field"
)

var (
	// ErrMissingField matches any FieldError with CodeMissingField.
	ErrMissingField = errors.New("missing field")
	// ErrTypeMismatch matches any FieldError with CodeTypeMismatch.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnknownField matches any FieldError with CodeUnknownField.
	ErrUnknownField = errors.New("unknown field")
)

// FieldError represents a single field decode failure.
type FieldError struct {
	Code     Code
	Path     []string // Raw-convention segments, e.g. ["MainProp", "RandGroupId"] or ["Zoom", "[1]"]
	Expected string   // Type name, empty for unknown fields
	Got      any      // Offending value, nil when the field is absent
	Detail   string
}

// Field returns the dotted raw path of the failing field, e.g. "MainProp.RandGroupId".
func (e *FieldError) Field() string {
	var b strings.Builder
	for i, seg := range e.Path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func (e *FieldError) Error() string {
	var msg string
	switch e.Code {
	case CodeMissingField:
		msg = fmt.Sprintf("field %q: missing field", e.Field())
	case CodeUnknownField:
		msg = fmt.Sprintf("field %q: unknown field", e.Field())
	default:
		msg = fmt.Sprintf("field %q: type mismatch: expected %s, got %s", e.Field(), e.Expected, describe(e.Got))
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is reports whether target is the sentinel matching e.Code.
func (e *FieldError) Is(target error) bool {
	switch e.Code {
	case CodeMissingField:
		return target == ErrMissingField
	case CodeTypeMismatch:
		return target == ErrTypeMismatch
	case CodeUnknownField:
		return target == ErrUnknownField
	}
	return false
}

func (e *FieldError) within(segment string) *FieldError {
	e.Path = append([]string{segment}, e.Path...)
	return e
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

func mismatch(t Type, value any, detail string) *FieldError {
	return &FieldError{Code: CodeTypeMismatch, Expected: t.Name(), Got: value, Detail: detail}
}

// asFieldError normalizes errors returned by Type implementations.
func asFieldError(t Type, value any, err error) *FieldError {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe
	}
	return mismatch(t, value, err.Error())
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
