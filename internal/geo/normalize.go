package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining marks,
// so "Réunion" and "Reunion" collapse to the same bytes.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a geographic display name for use as a join key:
// accents stripped, lowercased, surrounding whitespace trimmed. Idempotent.
// Indicator files and boundary files frequently disagree on casing and
// accenting for the same unit, so all name joins go through here.
func NormalizeName(name string) string {
	out, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Malformed input; fall back to the raw string rather than dropping it.
		out = name
	}
	return strings.ToLower(strings.TrimSpace(out))
}
