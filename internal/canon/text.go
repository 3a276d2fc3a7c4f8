package canon

import (
	"strings"
	"unicode"
)

// Text trims s and collapses internal whitespace runs to a single space.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold is Text lowered, for comparisons that ignore case and spacing.
func Fold(s string) string {
	return strings.ToLower(Text(s))
}

// Equal compares two labels such as city names ignoring case and spacing.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Contains reports whether needle occurs in haystack, ignoring case.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Lines splits a delimited list (commas, semicolons, newlines or tabs) into
// trimmed non-empty entries.
func Lines(v string) []string {
	if v == "" {
		return nil
	}
	fields := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '\r', '\t':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, unicode.IsSpace)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
