package genre

import (
	"github.com/shelfscanapp/shelfscan-server/internal/normalize"
)

// closeMatchCutoff is the minimum similarity for a fuzzy genre match.
const closeMatchCutoff = 0.6

// DefaultGenres is the default genre list seeded into an empty
// catalog. Librarians can add and remove genres after initial setup.
//
//nolint:gochecknoglobals // Static seed data
var DefaultGenres = []string{
	"Poesia",
	"Literatura de Cordel",
	"Biografia",
	"Autobiografia",
	"Diálogo",
	"Hábito",
	"Psicologia",
	"Cultura Afro-brasileira",
	"História",
	"Teatro",
	"Educação",
	"Romance",
	"Ficção",
	"Fantasia",
	"Mitologia",
	"Literatura Infantil",
	"Adolescentes",
	"Infantojuvenil",
	"Suspense",
	"Lenda",
	"Folclore",
	"Novela",
	"Fábula",
	"Narrativa",
	"Afetividade",
	"Letramento",
	"Filosofia",
	"Política",
	"Culinária",
	"Crônica",
	"Conto",
	"Didatico",
}

// CloseMatch maps a free-form genre label onto one of the given
// candidate names. It prefers an exact match ignoring case and
// accents, then falls back to the most similar candidate above the
// cutoff. Returns false when nothing comes close.
func CloseMatch(label string, candidates []string) (string, bool) {
	want := normalize.Text(label)
	if want == "" {
		return "", false
	}

	for _, c := range candidates {
		if normalize.Text(c) == want {
			return c, true
		}
	}

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := normalize.Similarity(want, normalize.Text(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore >= closeMatchCutoff {
		return best, true
	}
	return "", false
}
