// Package slug builds URL-safe identifiers from free-form titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when a title has no usable characters.
const Fallback = "post"

// Make lowercases the title, folds accented letters to ASCII, collapses any
// run of characters outside [a-z0-9] into a single '-' and trims dashes from
// both ends.
func Make(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return Fallback
	}
	return out
}

// WithSuffix appends a disambiguating suffix to an existing slug.
func WithSuffix(base, suffix string) string {
	suffix = Make(suffix)
	if suffix == Fallback {
		return base
	}
	return base + "-" + suffix
}
