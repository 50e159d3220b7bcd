// internal/game/normalize.go
package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks (diacritics), and
// recomposes. "héros" and "heros" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeGuess lowercases, strips diacritics, and drops everything except
// letters, digits, spaces, and hyphens. Guesses and accepted translations are
// both passed through this before comparison.
func NormalizeGuess(s string) string {
	lower := strings.ToLower(s)
	stripped, _, err := transform.String(stripMarks, lower)
	if err != nil {
		stripped = lower
	}
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
