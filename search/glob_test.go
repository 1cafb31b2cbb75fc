package search

import (
	"testing"

	"github.com/crmarques/srvinv/faults"
)

func TestGlobMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{pattern: "*", value: "", want: true},
		{pattern: "*", value: "anything/with/slashes", want: true},
		{pattern: "prod-*", value: "prod-web", want: true},
		{pattern: "prod-*", value: "xprod-web", want: false},
		{pattern: "prod", value: "prod-web", want: false},
		{pattern: "PROD-*", value: "prod-web", want: false},
		{pattern: "web-0?", value: "web-01", want: true},
		{pattern: "web-0?", value: "web-012", want: false},
		{pattern: "web-[0-2]1", value: "web-11", want: true},
		{pattern: "web-[0-2]1", value: "web-31", want: false},
		{pattern: "web-[!0-2]1", value: "web-31", want: true},
		{pattern: "web-[!0-2]1", value: "web-11", want: false},
		{pattern: "[]]x", value: "]x", want: true},
		{pattern: "[!]]x", value: "ax", want: true},
		{pattern: "[^a]", value: "^", want: true},
		{pattern: "[^a]", value: "b", want: false},
		{pattern: "a[b", value: "a[b", want: true},
		{pattern: "10.0.*.0/24", value: "10.0.3.0/24", want: true},
		{pattern: "a.b", value: "axb", want: false},
		{pattern: "(x)+", value: "(x)+", want: true},
		{pattern: `back\slash`, value: `back\slash`, want: true},
		{pattern: "line*", value: "line\nbreak", want: true},
		{pattern: "caf?", value: "café", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.value, func(t *testing.T) {
			t.Parallel()

			glob, err := CompileGlob(tt.pattern)
			if err != nil {
				t.Fatalf("CompileGlob returned error: %v", err)
			}
			if got := glob.Match(tt.value); got != tt.want {
				t.Fatalf("Match(%q, %q) = %t, want %t", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestCompileGlobRejectsInvalidRange(t *testing.T) {
	t.Parallel()

	_, err := CompileGlob("[z-a]")
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
