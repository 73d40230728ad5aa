package service

import (
	"context"
	"log/slog"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
	"github.com/shelfscanapp/shelfscan-server/internal/validation"
)

// GenreService manages the genre taxonomy.
type GenreService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGenreService creates a genre service.
func NewGenreService(store *sqlite.Store, logger *slog.Logger) *GenreService {
	return &GenreService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// EnsureDefaults seeds the stock Portuguese genre list. Idempotent;
// called at startup.
func (s *GenreService) EnsureDefaults(ctx context.Context) error {
	return s.store.SeedDefaultGenres(ctx)
}

// List returns all genres sorted by name.
func (s *GenreService) List(ctx context.Context) ([]*domain.Genre, error) {
	return s.store.ListGenres(ctx)
}

// CreateGenreRequest names a new genre.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Create adds a genre, reusing an existing one with the same slug.
func (s *GenreService) Create(ctx context.Context, req CreateGenreRequest) (*domain.Genre, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.store.GetOrCreateGenreByName(ctx, req.Name)
}

// RenameGenreRequest carries the new name for a genre.
type RenameGenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Rename changes a genre's name. Entries referencing the genre pick up
// the new name through the genre join.
func (s *GenreService) Rename(ctx context.Context, genreID string, req RenameGenreRequest) (*domain.Genre, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	g, err := s.store.RenameGenre(ctx, genreID, req.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("renamed genre", "id", genreID, "name", g.Name)
	return g, nil
}

// Delete removes a genre. Genres still referenced by entries return
// store.ErrGenreInUse.
func (s *GenreService) Delete(ctx context.Context, genreID string) error {
	if err := s.store.DeleteGenre(ctx, genreID); err != nil {
		return err
	}
	s.logger.Info("deleted genre", "id", genreID)
	return nil
}

// EntryCount reports how many entries reference a genre.
func (s *GenreService) EntryCount(ctx context.Context, genreID string) (int, error) {
	return s.store.CountEntriesByGenre(ctx, genreID)
}
