package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
)

func saveBody() map[string]any {
	return map[string]any{
		"barcode":   "9788535902778",
		"title":     "Dom Casmurro",
		"author":    "Machado de Assis",
		"publisher": "Companhia das Letras",
		"genre":     "Romance",
		"year":      "1899",
		"operator":  "ana",
		"quantity":  2,
	}
}

func TestSaveEntries(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Post("/api/v1/entries", saveBody())
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	result := decodeBody[service.SaveResult](t, resp.Body.Bytes())
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "Dom Casmurro", result.Entries[0].Title)
	assert.Empty(t, result.Similar)
}

func TestSaveEntries_OptionalFieldsOmitted(t *testing.T) {
	ts := newTestServer(t, nil)

	// Year and cover URL are not always known at the shelf.
	body := saveBody()
	delete(body, "year")
	body["quantity"] = 1
	resp := ts.api.Post("/api/v1/entries", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	result := decodeBody[service.SaveResult](t, resp.Body.Bytes())
	require.Len(t, result.Entries, 1)
	assert.Empty(t, result.Entries[0].Year)
}

func TestUpdateEntry_PartialBody(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Post("/api/v1/entries", saveBody())
	require.Equal(t, http.StatusCreated, resp.Code)
	result := decodeBody[service.SaveResult](t, resp.Body.Bytes())
	entryID := result.Entries[0].ID

	// Only the fields being corrected need to travel.
	resp = ts.api.Put("/api/v1/entries/"+entryID, map[string]any{
		"title":    "Memórias Póstumas de Brás Cubas",
		"operator": "carla",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	entry := decodeBody[domain.CatalogEntry](t, resp.Body.Bytes())
	assert.Equal(t, "Memórias Póstumas de Brás Cubas", entry.Title)
	assert.Equal(t, "carla", entry.Operator)
}

func TestSaveEntries_Validation(t *testing.T) {
	ts := newTestServer(t, nil)

	body := saveBody()
	body["quantity"] = 0
	resp := ts.api.Post("/api/v1/entries", body)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	body = saveBody()
	body["barcode"] = "123"
	resp = ts.api.Post("/api/v1/entries", body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSaveEntries_SimilarWarning(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Post("/api/v1/entries", saveBody())
	require.Equal(t, http.StatusCreated, resp.Code)

	body := saveBody()
	body["barcode"] = "9786555322445"
	body["quantity"] = 1
	resp = ts.api.Post("/api/v1/entries", body)
	require.Equal(t, http.StatusCreated, resp.Code)

	result := decodeBody[service.SaveResult](t, resp.Body.Bytes())
	assert.NotEmpty(t, result.Similar, "same title under a new barcode should be flagged")
}

func TestListEntries(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Post("/api/v1/entries", saveBody())
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/entries")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeBody[ListEntriesResponse](t, resp.Body.Bytes())
	assert.Len(t, list.Entries, 2)

	resp = ts.api.Get("/api/v1/entries?operator=bia")
	require.Equal(t, http.StatusOK, resp.Code)
	list = decodeBody[ListEntriesResponse](t, resp.Body.Bytes())
	assert.Empty(t, list.Entries)
}

func TestEntryLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Post("/api/v1/entries", saveBody())
	require.Equal(t, http.StatusCreated, resp.Code)
	result := decodeBody[service.SaveResult](t, resp.Body.Bytes())
	entryID := result.Entries[0].ID

	resp = ts.api.Get("/api/v1/entries/" + entryID)
	require.Equal(t, http.StatusOK, resp.Code)
	entry := decodeBody[domain.CatalogEntry](t, resp.Body.Bytes())
	assert.Equal(t, "Dom Casmurro", entry.Title)

	resp = ts.api.Put("/api/v1/entries/"+entryID, map[string]any{
		"title":    "Dom Casmurro (Edição Revista)",
		"author":   "Machado de Assis",
		"genre":    "Literatura Brasileira",
		"operator": "bia",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	entry = decodeBody[domain.CatalogEntry](t, resp.Body.Bytes())
	assert.Equal(t, "Dom Casmurro (Edição Revista)", entry.Title)
	assert.Equal(t, "bia", entry.Operator)

	resp = ts.api.Delete("/api/v1/entries/" + entryID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/entries/" + entryID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetEntry_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Get("/api/v1/entries/ent_missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSuggestTitles(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Post("/api/v1/entries", saveBody())
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/entries/suggest?q=dom")
	require.Equal(t, http.StatusOK, resp.Code)
	suggestions := decodeBody[SuggestTitlesResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, suggestions.Titles)
	assert.Equal(t, "Dom Casmurro", suggestions.Titles[0])
}

func TestFindSimilarEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.api.Post("/api/v1/entries", saveBody())
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/entries/similar?title=Dom+Casmurro")
	require.Equal(t, http.StatusOK, resp.Code)
	similar := decodeBody[FindSimilarResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, similar.Similar)
	assert.Equal(t, "Dom Casmurro", similar.Similar[0].Entry.Title)
}
