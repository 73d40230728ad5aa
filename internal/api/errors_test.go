package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaErrorsNameOffendingField(t *testing.T) {
	ts := newTestServer(t, nil)

	body := saveBody()
	delete(body, "barcode")
	resp := ts.api.Post("/api/v1/entries", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	apiErr := decodeBody[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)

	details, ok := apiErr.Details.([]any)
	require.True(t, ok, resp.Body.String())
	require.NotEmpty(t, details)
	assert.Contains(t, resp.Body.String(), "body.barcode")
}

func TestSchemaErrorsRejectWrongTypes(t *testing.T) {
	ts := newTestServer(t, nil)

	body := saveBody()
	body["quantity"] = "two"
	resp := ts.api.Post("/api/v1/entries", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	apiErr := decodeBody[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.NotNil(t, apiErr.Details)
}
