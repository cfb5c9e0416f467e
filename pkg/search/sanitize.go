package search

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// markupPolicy strips all markup from incoming queries. Safe for concurrent
// use once constructed.
var markupPolicy = bluemonday.StrictPolicy()

// sanitizeQuery strips markup, control characters, and redundant whitespace
// from a raw query.
func sanitizeQuery(q string) string {
	s := markupPolicy.Sanitize(q)
	// StrictPolicy escapes entities; restore the literal text.
	s = html.UnescapeString(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// sanitizeID keeps only characters safe for a result identifier.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		}
		return -1
	}, id)
}
