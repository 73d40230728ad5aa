package sqlite

import (
	"context"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
)

// CountEntries returns the total number of catalog entries.
func (s *Store) CountEntries(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

// CountDistinctTitles returns the number of distinct titles.
func (s *Store) CountDistinctTitles(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT title) FROM entries`).Scan(&n)
	return n, err
}

// CountEntriesSince returns how many entries were recorded at or
// after the given instant.
func (s *Store) CountEntriesSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE recorded_at >= ?`,
		formatTime(since)).Scan(&n)
	return n, err
}

// GenreDistribution returns entry counts per genre, most common
// first. Entries without a genre fall under an empty name.
func (s *Store) GenreDistribution(ctx context.Context) ([]domain.NameCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(g.name, ''), COUNT(*) AS n
		FROM entries e LEFT JOIN genres g ON g.id = e.genre_id
		GROUP BY g.name
		ORDER BY n DESC, g.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNameCounts(rows)
}

// DailyCounts returns per-day entry counts for days at or after
// since, in UTC, oldest first.
func (s *Store) DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(recorded_at, 1, 10) AS day, COUNT(*)
		FROM entries
		WHERE recorded_at >= ?
		GROUP BY day
		ORDER BY day ASC`,
		formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.DailyCount
	for rows.Next() {
		var dc domain.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// TopAuthors returns the most catalogued authors.
func (s *Store) TopAuthors(ctx context.Context, limit int) ([]domain.NameCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author, COUNT(*) AS n
		FROM entries
		WHERE author IS NOT NULL AND author != ''
		GROUP BY author
		ORDER BY n DESC, author ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNameCounts(rows)
}

// TopPublishers returns the most catalogued publishers.
func (s *Store) TopPublishers(ctx context.Context, limit int) ([]domain.NameCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT publisher, COUNT(*) AS n
		FROM entries
		WHERE publisher IS NOT NULL AND publisher != ''
		GROUP BY publisher
		ORDER BY n DESC, publisher ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNameCounts(rows)
}

// OperatorTotals returns lifetime entry counts per operator, highest
// first.
func (s *Store) OperatorTotals(ctx context.Context) ([]domain.NameCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT operator, COUNT(*) AS n
		FROM entries
		GROUP BY operator
		ORDER BY n DESC, operator ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNameCounts(rows)
}

// OperatorCountSince returns how many entries an operator recorded at
// or after the given instant.
func (s *Store) OperatorCountSince(ctx context.Context, operator string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE operator = ? AND recorded_at >= ?`,
		operator, formatTime(since)).Scan(&n)
	return n, err
}

// OperatorActiveDays returns the distinct UTC days on which an
// operator recorded entries.
func (s *Store) OperatorActiveDays(ctx context.Context, operator string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT substr(recorded_at, 1, 10)
		FROM entries
		WHERE operator = ?`, operator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		t, err := time.ParseInLocation("2006-01-02", day, time.UTC)
		if err != nil {
			return nil, err
		}
		days = append(days, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanNameCounts drains (name, count) rows.
func scanNameCounts(rows rowScanner) ([]domain.NameCount, error) {
	var counts []domain.NameCount
	for rows.Next() {
		var nc domain.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
