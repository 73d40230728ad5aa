package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search book metadata",
		Description: "Resolves an ISBN or title/author into a bibliographic record, cascading over the catalog, cache, and external sources",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "suggestGenre",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/genre",
		Summary:     "Suggest a genre",
		Description: "Asks the AI assistant to classify a record into one of the catalog genres",
		Tags:        []string{"Search"},
	}, s.handleSuggestGenre)
}

// SearchBookRequest is one metadata lookup. ISBN alone runs the full
// cascade; title alone goes straight to the free-text path.
type SearchBookRequest struct {
	ISBN     string `json:"isbn,omitzero" doc:"Barcode to look up"`
	Title    string `json:"title,omitzero" doc:"Title, used when no ISBN or as a fallback hint"`
	Author   string `json:"author,omitzero" doc:"Author hint for free-text queries"`
	Operator string `json:"operator,omitzero" doc:"Operator running the search"`
	UseAI    bool   `json:"use_ai,omitzero" doc:"Permit the AI fallback when sources come up short"`
}

type SearchBookInput struct {
	Body SearchBookRequest
}

type SearchBookOutput struct {
	Body domain.BookRecord
}

func (s *Server) handleSearch(ctx context.Context, input *SearchBookInput) (*SearchBookOutput, error) {
	if input.Body.ISBN == "" && input.Body.Title == "" {
		return nil, huma.Error400BadRequest("either isbn or title is required")
	}

	record := s.services.Search.Search(ctx, service.SearchRequest{
		ISBN:     input.Body.ISBN,
		Title:    input.Body.Title,
		Author:   input.Body.Author,
		Operator: input.Body.Operator,
		UseAI:    input.Body.UseAI,
	})

	return &SearchBookOutput{Body: record}, nil
}

type SuggestGenreInput struct {
	Body domain.BookRecord
}

type SuggestGenreResponse struct {
	Genre string `json:"genre" doc:"Suggested genre name, empty when no confident match"`
}

type SuggestGenreOutput struct {
	Body SuggestGenreResponse
}

func (s *Server) handleSuggestGenre(ctx context.Context, input *SuggestGenreInput) (*SuggestGenreOutput, error) {
	genre := s.services.Search.SuggestGenre(ctx, input.Body)
	return &SuggestGenreOutput{Body: SuggestGenreResponse{Genre: genre}}, nil
}
