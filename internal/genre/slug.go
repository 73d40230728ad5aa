// Package genre provides genre translation, slugs, and the default
// shelf taxonomy.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Runs of anything outside [a-z0-9] collapse to a single hyphen.
var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a genre name. Accents are
// stripped rather than escaped, so "Ficção Científica" becomes
// "ficcao-cientifica" and "Sci-Fi/Fantasy" becomes "sci-fi-fantasy".
// Names with no ASCII letters or digits slug to the empty string.
func Slugify(name string) string {
	// NFKD splits accented letters into base letter plus combining
	// mark; dropping the non-ASCII runes then leaves the base letter.
	decomposed := norm.NFKD.String(name)
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, decomposed)

	slug := slugSeparators.ReplaceAllString(strings.ToLower(ascii), "-")
	return strings.Trim(slug, "-")
}
