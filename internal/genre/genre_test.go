package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "fiction", "Ficção"},
		{"horror", "horror", "Terror"},
		{"thriller", "thriller", "Suspense"},
		{"case insensitive", "HISTORY", "História"},
		{"untranslated passes through", "cooking", "Cooking"},
		{"empty", "", "N/A"},
		{"whitespace", "   ", "N/A"},
		{"placeholder", "N/A", "N/A"},
		{"placeholder lowercase", "n/a", "N/A"},
		// Compound labels are rewritten rule by rule, so earlier rules
		// win over the dedicated "science fiction" rule.
		{"science fiction", "science fiction", "Ciência Ficção"},
		{"non-fiction", "non-fiction", "Non-Ficção"},
		{"young adult", "young adult fiction", "Jovem Adulto Ficção"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Poesia", "poesia"},
		{"Literatura de Cordel", "literatura-de-cordel"},
		{"Ficção Científica", "ficcao-cientifica"},
		{"Cultura Afro-brasileira", "cultura-afro-brasileira"},
		{"  Conto  ", "conto"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestCloseMatch_Exact(t *testing.T) {
	got, ok := CloseMatch("Romance", DefaultGenres)
	assert.True(t, ok)
	assert.Equal(t, "Romance", got)

	// Case and accents ignored.
	got, ok = CloseMatch("historia", DefaultGenres)
	assert.True(t, ok)
	assert.Equal(t, "História", got)
}

func TestCloseMatch_Fuzzy(t *testing.T) {
	got, ok := CloseMatch("Biografias", DefaultGenres)
	assert.True(t, ok)
	assert.Equal(t, "Biografia", got)

	got, ok = CloseMatch("poesias", DefaultGenres)
	assert.True(t, ok)
	assert.Equal(t, "Poesia", got)
}

func TestCloseMatch_NoMatch(t *testing.T) {
	_, ok := CloseMatch("xylophone repair", DefaultGenres)
	assert.False(t, ok)

	_, ok = CloseMatch("", DefaultGenres)
	assert.False(t, ok)

	_, ok = CloseMatch("Romance", nil)
	assert.False(t, ok)
}
