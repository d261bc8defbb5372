// Package dedup detects book records that describe the same real-world
// book and merges them without losing any user's reading data.
package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// keySeparator joins the normalized title and author into a canonical key.
const keySeparator = "|||"

// diacriticStripper decomposes characters and removes combining marks,
// so "Misérables" and "Miserables" normalize identically.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s, strips diacritics, replaces punctuation and
// symbol runs with a single space and collapses whitespace. It is total
// over any input and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := true // leading separators are dropped
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		// Punctuation, symbols and whitespace all collapse to one space.
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// CanonicalKey derives the grouping key for a title/author pair.
// Collisions between distinct records are the duplicate-detection signal.
func CanonicalKey(title, author string) string {
	return Normalize(title) + keySeparator + Normalize(author)
}
