package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/store"
)

// entryColumns is the ordered list of columns selected in entry queries.
// Must match the scan order in scanEntry.
const entryColumns = `e.id, e.isbn, e.title, e.author, e.publisher, e.genre_id,
	COALESCE(g.name, ''), e.year, e.cover_url, e.operator, e.recorded_at, e.updated_at`

// entryJoin joins entries to their optional genre for name lookup.
const entryJoin = `FROM entries e LEFT JOIN genres g ON g.id = e.genre_id`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a domain.CatalogEntry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry

	var (
		isbn       sql.NullString
		author     sql.NullString
		publisher  sql.NullString
		genreID    sql.NullString
		year       sql.NullString
		coverURL   sql.NullString
		recordedAt string
		updatedAt  string
	)

	err := scanner.Scan(
		&e.ID,
		&isbn,
		&e.Title,
		&author,
		&publisher,
		&genreID,
		&e.GenreName,
		&year,
		&coverURL,
		&e.Operator,
		&recordedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.RecordedAt, err = parseTime(recordedAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if isbn.Valid {
		e.ISBN = isbn.String
	}
	if author.Valid {
		e.Author = author.String
	}
	if publisher.Valid {
		e.Publisher = publisher.String
	}
	if genreID.Valid {
		e.GenreID = genreID.String
	}
	if year.Valid {
		e.Year = year.String
	}
	if coverURL.Valid {
		e.CoverURL = coverURL.String
	}

	return &e, nil
}

// CreateEntries inserts catalog entries in a single transaction.
// Saving N copies of a book produces N rows, all or none.
func (s *Store) CreateEntries(ctx context.Context, entries []*domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (
				id, isbn, title, author, publisher, genre_id, year,
				cover_url, operator, recorded_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID,
			nullString(e.ISBN),
			e.Title,
			nullString(e.Author),
			nullString(e.Publisher),
			nullString(e.GenreID),
			nullString(e.Year),
			nullString(e.CoverURL),
			e.Operator,
			formatTime(e.RecordedAt),
			formatTime(e.UpdatedAt),
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
			return err
		}
	}

	return tx.Commit()
}

// GetEntry retrieves a catalog entry by ID.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` `+entryJoin+` WHERE e.id = ?`, id)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListOptions filters and pages entry listings.
type ListOptions struct {
	Operator string
	GenreID  string
	ISBN     string
	Limit    int
	Offset   int
}

// ListEntries returns entries newest first, filtered by the options.
func (s *Store) ListEntries(ctx context.Context, opts ListOptions) ([]*domain.CatalogEntry, error) {
	query := `SELECT ` + entryColumns + ` ` + entryJoin
	var (
		conds []string
		args  []any
	)
	if opts.Operator != "" {
		conds = append(conds, "e.operator = ?")
		args = append(args, opts.Operator)
	}
	if opts.GenreID != "" {
		conds = append(conds, "e.genre_id = ?")
		args = append(args, opts.GenreID)
	}
	if opts.ISBN != "" {
		conds = append(conds, "e.isbn = ?")
		args = append(args, opts.ISBN)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY e.recorded_at DESC, e.id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DistinctTitleEntries returns one representative entry per distinct
// title, used for duplicate detection against new saves.
func (s *Store) DistinctTitleEntries(ctx context.Context) ([]*domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` `+entryJoin+`
		 WHERE e.id IN (SELECT MIN(id) FROM entries GROUP BY title)
		 ORDER BY e.title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntry performs a full row update on an existing entry.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) UpdateEntry(ctx context.Context, e *domain.CatalogEntry) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE entries SET
			isbn = ?,
			title = ?,
			author = ?,
			publisher = ?,
			genre_id = ?,
			year = ?,
			cover_url = ?,
			operator = ?,
			updated_at = ?
		WHERE id = ?`,
		nullString(e.ISBN),
		e.Title,
		nullString(e.Author),
		nullString(e.Publisher),
		nullString(e.GenreID),
		nullString(e.Year),
		nullString(e.CoverURL),
		e.Operator,
		formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteEntry removes an entry.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
