package strings

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "dangling reference",
			maxLen:   80,
			expected: "dangling reference",
		},
		{
			name:     "long string truncated with ellipsis",
			input:    "aaaaaaaaaaaaaaaaaaaa",
			maxLen:   10,
			expected: "aaaaaaa...",
		},
		{
			name:     "newlines collapse to spaces",
			input:    "line one\nline two",
			maxLen:   80,
			expected: "line one line two",
		},
		{
			name:     "whitespace runs collapse",
			input:    "a\t\t b   c",
			maxLen:   80,
			expected: "a b c",
		},
		{
			name:     "maxLen clamped to minimum",
			input:    "abcdefgh",
			maxLen:   1,
			expected: "a...",
		},
		{
			name:     "unicode not split mid-rune",
			input:    "éééééééééé",
			maxLen:   6,
			expected: "ééé...",
		},
		{
			name:     "empty string",
			input:    "",
			maxLen:   10,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxLen)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}
