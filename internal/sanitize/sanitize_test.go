package sanitize

import (
	"strings"
	"testing"
)

func TestCleanSmartPunctuation(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"curly double quotes", "“breathe”", `"breathe"`},
		{"curly single quotes", "it’s fine", "it's fine"},
		{"em dash", "pause — then act", "pause - then act"},
		{"en dash", "2–3 breaths", "2-3 breaths"},
		{"horizontal bar", "wait ― reflect", "wait - reflect"},
		{"ellipsis", "and so…", "and so..."},
		{"em space", "one word", "one word"},
		{"zero width space", "to​gether", "to gether"},
		{"trims", "  steady  ", "steady"},
		{"plain ascii untouched", `already "clean" - ok...`, `already "clean" - ok...`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanLeavesNoForbiddenGlyphs(t *testing.T) {
	in := "“What stands in the way…” — it’s the way itself–always"
	got := Clean(in)
	for _, glyph := range []string{"‘", "’", "“", "”", "–", "—", "…", " ", "​"} {
		if strings.Contains(got, glyph) {
			t.Fatalf("Clean output still contains %q: %q", glyph, got)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	in := "it’s “fine” — really…"
	once := Clean(in)
	if twice := Clean(once); twice != once {
		t.Fatalf("Clean not idempotent: %q vs %q", once, twice)
	}
}
