package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createGenre",
		Method:        http.MethodPost,
		Path:          "/api/v1/genres",
		Summary:       "Create genre",
		Description:   "Creates a genre, reusing an existing one with the same slug",
		Tags:          []string{"Genres"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameGenre",
		Method:      http.MethodPut,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Rename genre",
		Description: "Catalog entries referencing the genre pick up the new name",
		Tags:        []string{"Genres"},
	}, s.handleRenameGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGenre",
		Method:      http.MethodDelete,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Delete genre",
		Description: "Fails with 409 while catalog entries still reference the genre",
		Tags:        []string{"Genres"},
	}, s.handleDeleteGenre)
}

type ListGenresResponse struct {
	Genres []*domain.Genre `json:"genres" doc:"Genres sorted by name"`
}

type ListGenresOutput struct {
	Body ListGenresResponse
}

func (s *Server) handleListGenres(ctx context.Context, _ *struct{}) (*ListGenresOutput, error) {
	genres, err := s.services.Genre.List(ctx)
	if err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []*domain.Genre{}
	}
	return &ListGenresOutput{Body: ListGenresResponse{Genres: genres}}, nil
}

type CreateGenreInput struct {
	Body service.CreateGenreRequest
}

type GenreOutput struct {
	Body domain.Genre
}

func (s *Server) handleCreateGenre(ctx context.Context, input *CreateGenreInput) (*GenreOutput, error) {
	g, err := s.services.Genre.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: *g}, nil
}

type RenameGenreInput struct {
	ID   string `path:"id" doc:"Genre ID"`
	Body service.RenameGenreRequest
}

func (s *Server) handleRenameGenre(ctx context.Context, input *RenameGenreInput) (*GenreOutput, error) {
	g, err := s.services.Genre.Rename(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: *g}, nil
}

type DeleteGenreInput struct {
	ID string `path:"id" doc:"Genre ID"`
}

func (s *Server) handleDeleteGenre(ctx context.Context, input *DeleteGenreInput) (*MessageOutput, error) {
	if err := s.services.Genre.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Genre deleted"}}, nil
}
