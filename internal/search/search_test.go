package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func testDocs() []*EntryDocument {
	now := time.Now().UnixMilli()
	return []*EntryDocument{
		{ID: "entry-1", ISBN: "9788535902778", Title: "Dom Casmurro", Author: "Machado de Assis", Publisher: "Companhia das Letras", GenreSlug: "romance", Operator: "ana", Year: 1899, CreatedAt: now},
		{ID: "entry-2", ISBN: "9788535910681", Title: "Memórias Póstumas de Brás Cubas", Author: "Machado de Assis", Publisher: "Companhia das Letras", GenreSlug: "romance", Operator: "ana", Year: 1881, CreatedAt: now},
		{ID: "entry-3", ISBN: "9788501076922", Title: "Vidas Secas", Author: "Graciliano Ramos", Publisher: "Record", GenreSlug: "romance", Operator: "bia", Year: 1938, CreatedAt: now},
		{ID: "entry-4", ISBN: "9788594318602", Title: "O Quinze", Author: "Rachel de Queiroz", Publisher: "José Olympio", GenreSlug: "romance", Operator: "bia", Year: 1930, CreatedAt: now},
	}
}

func TestNewIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexEntry(t *testing.T) {
	index := setupTestIndex(t)

	entry := &domain.CatalogEntry{
		ID:         "entry-1",
		ISBN:       "9788535902778",
		Title:      "Dom Casmurro",
		Author:     "Machado de Assis",
		Year:       "1899",
		Operator:   "ana",
		RecordedAt: time.Now(),
	}
	require.NoError(t, index.IndexEntry(EntryToDocument(entry, "romance")))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestIndexEntries_Batch(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestSearch_ByTitle(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	result, err := index.Search(context.Background(), Params{Query: "Casmurro"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "entry-1", result.Hits[0].ID)
	assert.Equal(t, "Dom Casmurro", result.Hits[0].Title)
	assert.Equal(t, 1899, result.Hits[0].Year)
}

func TestSearch_ByAuthor(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	result, err := index.Search(context.Background(), Params{Query: "Machado"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(result.Hits), 2)
}

func TestSearch_FuzzyTypo(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	// One edit away from "casmurro".
	result, err := index.Search(context.Background(), Params{Query: "casmuro"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "entry-1", result.Hits[0].ID)
}

func TestSearch_OperatorFilter(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	result, err := index.Search(context.Background(), Params{Operator: "bia"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
	for _, hit := range result.Hits {
		assert.Equal(t, "bia", hit.Operator)
	}
}

func TestSearch_YearRange(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	result, err := index.Search(context.Background(), Params{MinYear: 1900, MaxYear: 1940})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	result, err := index.Search(context.Background(), Params{})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), result.Total)
}

func TestSuggest(t *testing.T) {
	index := setupTestIndex(t)
	docs := testDocs()
	// A second copy of the same title should be dedup'd.
	docs = append(docs, &EntryDocument{
		ID: "entry-5", ISBN: "9788535902778", Title: "Dom Casmurro",
		Author: "Machado de Assis", Operator: "bia", CreatedAt: time.Now().UnixMilli(),
	})
	require.NoError(t, index.IndexEntries(docs))

	hits, err := index.Suggest(context.Background(), "dom", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Dom Casmurro", hits[0].Title)
}

func TestSuggest_ShortPrefix(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	hits, err := index.Suggest(context.Background(), "d", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSimilarTitles(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	hits, err := index.SimilarTitles(context.Background(), "Dom Casmurro", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "entry-1", hits[0].ID)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestDeleteEntry(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	require.NoError(t, index.DeleteEntry("entry-1"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestRebuild(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexEntries(testDocs()))

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewIndex_Reopen(t *testing.T) {
	dir := t.TempDir()

	index, err := NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexEntries(testDocs()))
	require.NoError(t, index.Close())

	reopened, err := NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}
