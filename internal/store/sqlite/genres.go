package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/genre"
	"github.com/shelfscanapp/shelfscan-server/internal/id"
	"github.com/shelfscanapp/shelfscan-server/internal/store"
)

// genreColumns is the ordered list of columns selected in genre queries.
// Must match the scan order in scanGenre.
const genreColumns = `id, name, slug, created_at`

// scanGenre scans a sql.Row (or sql.Rows via its Scan method) into a domain.Genre.
func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var g domain.Genre
	var createdAt string

	if err := scanner.Scan(&g.ID, &g.Name, &g.Slug, &createdAt); err != nil {
		return nil, err
	}

	var err error
	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGenre inserts a new genre.
// Returns store.ErrAlreadyExists if the genre ID or slug already exists.
func (s *Store) CreateGenre(ctx context.Context, g *domain.Genre) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO genres (id, name, slug, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, g.Slug, formatTime(g.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetGenre retrieves a genre by ID.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenre(ctx context.Context, id string) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE id = ?`, id)

	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGenreBySlug retrieves a genre by slug.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE slug = ?`, slug)

	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetOrCreateGenreByName retrieves an existing genre whose slug
// matches the name, or creates a new one.
func (s *Store) GetOrCreateGenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	slug := genre.Slugify(name)
	if slug == "" {
		return nil, store.ErrInvalidInput.WithMessage("genre name cannot be empty")
	}

	existing, err := s.GetGenreBySlug(ctx, slug)
	if err == nil {
		return existing, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}

	genreID, err := id.Generate("genre")
	if err != nil {
		return nil, fmt.Errorf("generate genre ID: %w", err)
	}

	g := &domain.Genre{
		ID:        genreID,
		Name:      strings.TrimSpace(name),
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateGenre(ctx, g); err != nil {
		// Lost a race with a concurrent create; fetch the winner.
		if err == store.ErrAlreadyExists {
			return s.GetGenreBySlug(ctx, slug)
		}
		return nil, err
	}
	return g, nil
}

// ListGenres returns all genres sorted by name.
func (s *Store) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+genreColumns+` FROM genres ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return genres, nil
}

// RenameGenre changes a genre's name and slug.
// Returns store.ErrNotFound if the genre does not exist and
// store.ErrAlreadyExists if another genre already uses the new name.
func (s *Store) RenameGenre(ctx context.Context, genreID, name string) (*domain.Genre, error) {
	slug := genre.Slugify(name)
	if slug == "" {
		return nil, store.ErrInvalidInput.WithMessage("genre name cannot be empty")
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE genres SET name = ?, slug = ? WHERE id = ?`,
		strings.TrimSpace(name), slug, genreID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, store.ErrAlreadyExists
		}
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetGenre(ctx, genreID)
}

// CountEntriesByGenre returns how many entries reference a genre.
func (s *Store) CountEntriesByGenre(ctx context.Context, genreID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE genre_id = ?`, genreID).Scan(&n)
	return n, err
}

// DeleteGenre removes a genre.
// Returns store.ErrGenreInUse if entries still reference it and
// store.ErrNotFound if it does not exist.
func (s *Store) DeleteGenre(ctx context.Context, genreID string) error {
	n, err := s.CountEntriesByGenre(ctx, genreID)
	if err != nil {
		return err
	}
	if n > 0 {
		return store.ErrGenreInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, genreID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SeedDefaultGenres inserts the default genre list into an empty
// genres table. A non-empty table is left untouched.
func (s *Store) SeedDefaultGenres(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, name := range genre.DefaultGenres {
		if _, err := s.GetOrCreateGenreByName(ctx, name); err != nil {
			return fmt.Errorf("seed genre %q: %w", name, err)
		}
	}
	s.logger.Info("seeded default genres", "count", len(genre.DefaultGenres))
	return nil
}
