package schema

import (
	"fmt"
	"strings"
)

// RawName converts a lower_snake field name to the PascalCase key used by raw table data.
// Each underscore-separated word gets its first letter upper-cased: "born_buff_id" -> "BornBuffId".
func RawName(field string) string {
	var b strings.Builder
	b.Grow(len(field))
	upper := true
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		b.WriteByte(c)
	}
	return b.String()
}

// FieldName converts a PascalCase raw key to the lower_snake field name: "BornBuffId" -> "born_buff_id".
// It is the inverse of RawName for every valid field name.
func FieldName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 4)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// checkName enforces the lower_snake convention that keeps RawName and FieldName bijective:
// ASCII lower-case letters and digits, words separated by single underscores, each word
// starting with a letter.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("field name is empty")
	}
	for _, word := range strings.Split(name, "_") {
		if word == "" {
			return fmt.Errorf("field %q: empty word between underscores", name)
		}
		if word[0] < 'a' || word[0] > 'z' {
			return fmt.Errorf("field %q: word %q must start with a lower-case letter", name, word)
		}
		for i := 1; i < len(word); i++ {
			c := word[i]
			if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
				return fmt.Errorf("field %q: invalid character %q", name, c)
			}
		}
	}
	return nil
}
