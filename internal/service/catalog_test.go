package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscanapp/shelfscan-server/internal/search"
	"github.com/shelfscanapp/shelfscan-server/internal/store"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

func newTestCatalog(t *testing.T) (*CatalogService, *sqlite.Store) {
	t.Helper()
	s := newTestStore(t)
	idx, err := search.NewIndex(search.Options{DataPath: t.TempDir(), Logger: testLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return NewCatalogService(s, idx, nil, testLogger()), s
}

func testSaveRequest() SaveRequest {
	return SaveRequest{
		Barcode:   "9788535902778",
		Title:     "Dom Casmurro",
		Author:    "Machado de Assis",
		Publisher: "Companhia das Letras",
		Genre:     "Romance",
		Year:      "1899",
		Operator:  "ana",
		Quantity:  1,
	}
}

func TestSave(t *testing.T) {
	svc, s := newTestCatalog(t)
	ctx := context.Background()

	req := testSaveRequest()
	req.Quantity = 3

	result, err := svc.Save(ctx, req)
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)

	// One row per physical copy, all sharing the bibliographic data.
	entries, err := s.ListEntries(ctx, sqlite.ListOptions{ISBN: req.Barcode})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "Dom Casmurro", e.Title)
		assert.Equal(t, "Romance", e.GenreName)
		assert.Equal(t, "ana", e.Operator)
	}

	// The genre was created on the fly.
	g, err := s.GetGenreBySlug(ctx, "romance")
	require.NoError(t, err)
	assert.Equal(t, "Romance", g.Name)
}

func TestSave_Validation(t *testing.T) {
	svc, _ := newTestCatalog(t)

	tests := []struct {
		name   string
		mutate func(*SaveRequest)
	}{
		{"quantity zero", func(r *SaveRequest) { r.Quantity = 0 }},
		{"quantity too large", func(r *SaveRequest) { r.Quantity = 101 }},
		{"missing title", func(r *SaveRequest) { r.Title = "" }},
		{"missing operator", func(r *SaveRequest) { r.Operator = "" }},
		{"bad barcode", func(r *SaveRequest) { r.Barcode = "123" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testSaveRequest()
			tt.mutate(&req)
			_, err := svc.Save(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestSave_SimilarTitleWarning(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, testSaveRequest())
	require.NoError(t, err)

	// Second copy of the same title under a different barcode: the
	// save proceeds but comes back flagged.
	req := testSaveRequest()
	req.Barcode = "9786555322445"
	result, err := svc.Save(ctx, req)
	require.NoError(t, err)

	require.NotEmpty(t, result.Similar)
	assert.Equal(t, "Dom Casmurro", result.Similar[0].Entry.Title)
	assert.InDelta(t, 1.0, result.Similar[0].Score, 0.001)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	result, err := svc.Save(ctx, testSaveRequest())
	require.NoError(t, err)
	entryID := result.Entries[0].ID

	updated, err := svc.Update(ctx, entryID, UpdateRequest{
		Title:    "Dom Casmurro (Edição Revista)",
		Author:   "Machado de Assis",
		Genre:    "Literatura Brasileira",
		Operator: "bia",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dom Casmurro (Edição Revista)", updated.Title)
	assert.Equal(t, "Literatura Brasileira", updated.GenreName)
	assert.Equal(t, "bia", updated.Operator)

	got, err := svc.Get(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, "Dom Casmurro (Edição Revista)", got.Title)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestCatalog(t)

	_, err := svc.Update(context.Background(), "ent_missing", UpdateRequest{
		Title:    "Qualquer",
		Operator: "ana",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	result, err := svc.Save(ctx, testSaveRequest())
	require.NoError(t, err)
	entryID := result.Entries[0].ID

	require.NoError(t, svc.Delete(ctx, entryID))

	_, err = svc.Get(ctx, entryID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, entryID), store.ErrNotFound)
}

func TestSuggest(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, testSaveRequest())
	require.NoError(t, err)

	req := testSaveRequest()
	req.Barcode = "9788503012980"
	req.Title = "Vidas Secas"
	req.Author = "Graciliano Ramos"
	_, err = svc.Save(ctx, req)
	require.NoError(t, err)

	hits, err := svc.Suggest(ctx, "dom", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Dom Casmurro", hits[0].Title)
}

func TestFindSimilar_EmptyTitle(t *testing.T) {
	svc, _ := newTestCatalog(t)

	similar, err := svc.FindSimilar(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, similar)
}

func TestRebuildIndex(t *testing.T) {
	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	req := testSaveRequest()
	req.Quantity = 2
	_, err := svc.Save(ctx, req)
	require.NoError(t, err)

	require.NoError(t, svc.RebuildIndex(ctx))

	hits, err := svc.Suggest(ctx, "dom", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}
