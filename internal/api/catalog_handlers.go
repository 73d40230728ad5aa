package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEntries",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries",
		Summary:     "List catalog entries",
		Description: "Returns entries newest first, optionally filtered by operator, genre, or ISBN",
		Tags:        []string{"Catalog"},
	}, s.handleListEntries)

	huma.Register(s.api, huma.Operation{
		OperationID:   "saveEntries",
		Method:        http.MethodPost,
		Path:          "/api/v1/entries",
		Summary:       "Catalog a book",
		Description:   "Saves a confirmed record as one entry per physical copy",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusCreated,
	}, s.handleSaveEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Get entry",
		Tags:        []string{"Catalog"},
	}, s.handleGetEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEntry",
		Method:      http.MethodPut,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Update entry",
		Tags:        []string{"Catalog"},
	}, s.handleUpdateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Delete entry",
		Description: "Removes one physical copy from the catalog",
		Tags:        []string{"Catalog"},
	}, s.handleDeleteEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "suggestTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries/suggest",
		Summary:     "Autocomplete titles",
		Tags:        []string{"Catalog"},
	}, s.handleSuggestTitles)

	huma.Register(s.api, huma.Operation{
		OperationID: "findSimilar",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries/similar",
		Summary:     "Find similar titles",
		Description: "Returns cataloged entries whose titles closely match the candidate",
		Tags:        []string{"Catalog"},
	}, s.handleFindSimilar)
}

type ListEntriesInput struct {
	Operator string `query:"operator" doc:"Filter by operator"`
	GenreID  string `query:"genre_id" doc:"Filter by genre ID"`
	ISBN     string `query:"isbn" doc:"Filter by barcode"`
	Limit    int    `query:"limit" minimum:"0" maximum:"500" doc:"Page size, 0 for all"`
	Offset   int    `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListEntriesResponse struct {
	Entries []*domain.CatalogEntry `json:"entries" doc:"Catalog entries, newest first"`
}

type ListEntriesOutput struct {
	Body ListEntriesResponse
}

func (s *Server) handleListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	entries, err := s.services.Catalog.List(ctx, sqlite.ListOptions{
		Operator: input.Operator,
		GenreID:  input.GenreID,
		ISBN:     input.ISBN,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.CatalogEntry{}
	}
	return &ListEntriesOutput{Body: ListEntriesResponse{Entries: entries}}, nil
}

type SaveEntriesInput struct {
	Body service.SaveRequest
}

type SaveEntriesOutput struct {
	Body service.SaveResult
}

func (s *Server) handleSaveEntries(ctx context.Context, input *SaveEntriesInput) (*SaveEntriesOutput, error) {
	result, err := s.services.Catalog.Save(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &SaveEntriesOutput{Body: *result}, nil
}

type EntryInput struct {
	ID string `path:"id" doc:"Entry ID"`
}

type EntryOutput struct {
	Body domain.CatalogEntry
}

func (s *Server) handleGetEntry(ctx context.Context, input *EntryInput) (*EntryOutput, error) {
	entry, err := s.services.Catalog.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: *entry}, nil
}

type UpdateEntryInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body service.UpdateRequest
}

func (s *Server) handleUpdateEntry(ctx context.Context, input *UpdateEntryInput) (*EntryOutput, error) {
	entry, err := s.services.Catalog.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: *entry}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, input *EntryInput) (*MessageOutput, error) {
	if err := s.services.Catalog.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Entry deleted"}}, nil
}

type SuggestTitlesInput struct {
	Prefix string `query:"q" minLength:"1" doc:"Partial title"`
	Limit  int    `query:"limit" minimum:"0" maximum:"50" doc:"Maximum suggestions"`
}

type SuggestTitlesResponse struct {
	Titles []string `json:"titles" doc:"Matching titles"`
}

type SuggestTitlesOutput struct {
	Body SuggestTitlesResponse
}

func (s *Server) handleSuggestTitles(ctx context.Context, input *SuggestTitlesInput) (*SuggestTitlesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}
	hits, err := s.services.Catalog.Suggest(ctx, input.Prefix, limit)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(hits))
	for _, hit := range hits {
		titles = append(titles, hit.Title)
	}
	return &SuggestTitlesOutput{Body: SuggestTitlesResponse{Titles: titles}}, nil
}

type FindSimilarInput struct {
	Title string `query:"title" minLength:"1" doc:"Candidate title"`
	Limit int    `query:"limit" minimum:"0" maximum:"20" doc:"Maximum matches"`
}

type FindSimilarResponse struct {
	Similar []domain.SimilarEntry `json:"similar" doc:"Near-duplicate entries with similarity scores"`
}

type FindSimilarOutput struct {
	Body FindSimilarResponse
}

func (s *Server) handleFindSimilar(ctx context.Context, input *FindSimilarInput) (*FindSimilarOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 5
	}
	similar, err := s.services.Catalog.FindSimilar(ctx, input.Title, limit)
	if err != nil {
		return nil, err
	}
	if similar == nil {
		similar = []domain.SimilarEntry{}
	}
	return &FindSimilarOutput{Body: FindSimilarResponse{Similar: similar}}, nil
}
