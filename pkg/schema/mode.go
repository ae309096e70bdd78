package schema

import (
	"fmt"
	"strings"
)

// Mode selects the decode policy and, with it, the schema profile.
// The zero value is Strict.
type Mode uint8

const (
	// Strict is the build-complete profile: unknown raw keys are rejected and
	// strict-only fields are required.
	Strict Mode = iota
	// Lenient is the build-minimal profile: unknown raw keys are dropped and
	// strict-only fields do not exist in the decoded Record.
	Lenient
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Includes reports whether a field with visibility v exists under this mode.
func (m Mode) Includes(v Visibility) bool {
	return v == VisibilityAlways || m == Strict
}

// ParseMode accepts "strict"/"complete" and "lenient"/"minimal".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "complete":
		return Strict, nil
	case "lenient", "minimal":
		return Lenient, nil
	}
	return Strict, fmt.Errorf("unknown mode %q (want strict or lenient)", s)
}

// Visibility tags a field as always present or present only in the strict profile.
type Visibility uint8

const (
	VisibilityAlways Visibility = iota
	VisibilityStrictOnly
)

func (v Visibility) String() string {
	if v == VisibilityStrictOnly {
		return "strict-only"
	}
	return "always"
}
