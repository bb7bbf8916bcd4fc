// Package sanitize normalizes generated wisdom text into plain ASCII
// punctuation so that persisted and shared text is byte-stable across
// rendering contexts.
package sanitize

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var ellipsisReplacer = strings.NewReplacer("…", "...")

// punctMapper folds smart punctuation and special Unicode spaces onto their
// plain ASCII equivalents. Multi-rune expansions (the ellipsis) are handled
// separately because a rune map is strictly one-to-one.
var punctMapper = transform.Chain(runes.Map(func(r rune) rune {
	switch r {
	case '‘', '’', '‚', '‛': // curly single quotes
		return '\''
	case '“', '”', '„', '‟': // curly double quotes
		return '"'
	case '‐', '‑', '‒', '–', '—', '―': // hyphen and dash clones
		return '-'
	}
	if r >= ' ' && r <= '​' { // punctuation-space block incl. zero-width
		return ' '
	}
	return r
}))

// Clean returns text with smart quotes, em/en dashes, ellipsis glyphs and
// special spaces replaced by ASCII, trimmed of surrounding whitespace. Clean
// is idempotent.
func Clean(text string) string {
	mapped, _, err := transform.String(punctMapper, text)
	if err != nil {
		// runes.Map never fails on valid UTF-8; fall back to the input.
		mapped = text
	}
	return strings.TrimSpace(ellipsisReplacer.Replace(mapped))
}
