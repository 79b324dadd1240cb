package strings

import (
	"strings"
)

// DefaultDetailMaxLen is the default maximum length for detail columns in
// tabular output.
const DefaultDetailMaxLen = 80

// MinTruncateLen is the minimum maxLen value for Truncate. Values smaller
// than this would not leave room for content plus "...".
const MinTruncateLen = 4

// Truncate truncates a string to maxLen characters and ensures single-line
// output: newlines and runs of whitespace collapse to single spaces, and
// "..." is appended if the string was cut.
//
// Operates on runes rather than bytes so multi-byte characters are never
// split. maxLen below MinTruncateLen is clamped.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
