package genre

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unknown is the placeholder for a genre no source could provide.
const Unknown = "N/A"

// translation is an ordered english -> portuguese substring rule.
// Order matters: rules apply one after another over the running
// result, so "science fiction" is normally rewritten by the earlier
// "fiction" and "science" rules before its own rule is reached.
type translation struct {
	english    string
	portuguese string
}

//nolint:gochecknoglobals // Static lookup table for genre translation
var translations = []translation{
	{"fiction", "ficção"},
	{"non-fiction", "não-ficção"},
	{"biography", "biografia"},
	{"history", "história"},
	{"science", "ciência"},
	{"technology", "tecnologia"},
	{"philosophy", "filosofia"},
	{"psychology", "psicologia"},
	{"self-help", "autoajuda"},
	{"business", "negócios"},
	{"romance", "romance"},
	{"fantasy", "fantasia"},
	{"science fiction", "ficção científica"},
	{"horror", "terror"},
	{"mystery", "mistério"},
	{"thriller", "suspense"},
	{"children", "infantil"},
	{"young adult", "jovem adulto"},
	{"poetry", "poesia"},
	{"drama", "drama"},
}

//nolint:gochecknoglobals // Title caser is safe for concurrent use
var titleCaser = cases.Title(language.BrazilianPortuguese)

// Translate converts an english genre label from an upstream catalog
// into portuguese, title-cased. Unrecognized words pass through
// untranslated. Empty or placeholder input returns Unknown.
func Translate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, Unknown) {
		return Unknown
	}

	s = strings.ToLower(s)
	for _, t := range translations {
		if strings.Contains(s, t.english) {
			s = strings.ReplaceAll(s, t.english, t.portuguese)
		}
	}

	return titleCaser.String(s)
}
