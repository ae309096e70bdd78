package schema

import (
	"errors"
	"sort"
)

// Decode maps a raw record (PascalCase keys) onto s and returns the normalized Record.
// It stops at the first failure, which is always a *FieldError.
//
// Decode is a pure function of (raw, s, mode); raw is never modified.
func Decode(s *Schema, raw map[string]any, mode Mode) (Record, error) {
	rec, errs := decodeRecord(s, raw, mode, false)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return rec, nil
}

// Validate applies the same rules as Decode but keeps going after a failure.
// Returns an *AggregateError with one entry per offending top-level field, or nil.
func Validate(s *Schema, raw map[string]any, mode Mode) error {
	_, errs := decodeRecord(s, raw, mode, true)
	if len(errs) == 0 {
		return nil
	}
	aggr := &AggregateError{Errors: make([]error, len(errs))}
	for i, err := range errs {
		aggr.Errors[i] = err
	}
	return aggr
}

// decodeRecord reports unknown keys first (sorted, strict only), then declared fields
// in schema order.
func decodeRecord(s *Schema, raw map[string]any, mode Mode, all bool) (Record, []*FieldError) {
	var errs []*FieldError

	if mode == Strict {
		unknown := make([]string, 0)
		for key := range raw {
			if _, ok := s.byRaw[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			errs = append(errs, &FieldError{Code: CodeUnknownField, Path: []string{key}, Got: raw[key]})
			if !all {
				return nil, errs
			}
		}
	}

	rec := make(Record, len(s.fields))
	for _, f := range s.fields {
		if !mode.Includes(f.Visibility) {
			continue
		}
		rawKey := f.RawName()
		value, ok := raw[rawKey]
		if !ok {
			errs = append(errs, &FieldError{Code: CodeMissingField, Path: []string{rawKey}, Expected: f.Type.Name()})
			if !all {
				return nil, errs
			}
			continue
		}
		v, err := f.Type.Decode(value, mode)
		if err != nil {
			errs = append(errs, asFieldError(f.Type, value, err).within(rawKey))
			if !all {
				return nil, errs
			}
			continue
		}
		rec[f.Name] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

// CodeOf returns the failure code of err, or "" if err carries no FieldError.
func CodeOf(err error) Code {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
