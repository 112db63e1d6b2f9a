package textutil_test

import (
	"strings"
	"testing"

	"carillon/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name untouched", "Sunday Service", "Sunday Service"},
		{"illegal characters replaced", `Easter: "Live" <HD>`, "Easter_ _Live_ _HD_"},
		{"path separators replaced", `a/b\c`, "a_b_c"},
		{"whitespace collapsed and trimmed", "  Memorial   of  John  ", "Memorial of John"},
		{"tabs and newlines collapse", "a\t\tb\nc", "a b c"},
		{"empty input", "", ""},
		{"only illegal chars", "???", "___"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := textutil.SanitizeFileName(tc.input)
			if got != tc.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeFileNameIdempotent(t *testing.T) {
	inputs := []string{
		"Sunday Service",
		`Wedding <Smith/Jones>`,
		"  spaced   out  ",
		`<>:"/\|?*`,
		"2025 Christmas At Carbondale",
	}
	for _, in := range inputs {
		once := textutil.SanitizeFileName(in)
		twice := textutil.SanitizeFileName(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
		if strings.ContainsAny(once, `<>:"/\|?*`) {
			t.Fatalf("illegal characters survived sanitization: %q", once)
		}
	}
}
