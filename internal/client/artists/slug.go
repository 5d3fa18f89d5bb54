package artists

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// countrySlug turns a country name as stored in the artist's fields into the
// WordPress slug of the country post ("United Kingdom" -> "united-kingdom").
func countrySlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range cases.Lower(language.Und).String(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
