package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json/v2"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/store"
)

// ISBNCacheKey keys a cached ISBN lookup.
func ISBNCacheKey(isbn string) string {
	return "isbn:" + isbn
}

// SearchCacheKey keys a cached title/author lookup. Queries are
// hashed so arbitrarily long titles stay within key limits.
func SearchCacheKey(title, author string) string {
	hash := sha256.Sum256([]byte(title + "\x00" + author))
	return "search:" + hex.EncodeToString(hash[:8])
}

// GetCachedRecord retrieves a cached metadata lookup.
// Returns nil, nil if not found or expired; expired rows are left in
// place and simply overwritten by the next SetCachedRecord.
func (s *Store) GetCachedRecord(ctx context.Context, key string) (*store.CachedRecord, error) {
	var (
		data      string
		fetchedAt string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT data, fetched_at FROM metadata_cache WHERE cache_key = ?`,
		key).Scan(&data, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fetchedTime, err := parseTime(fetchedAt)
	if err != nil {
		return nil, err
	}

	// A row exactly at the TTL is already stale.
	if time.Since(fetchedTime) >= s.cacheTTL {
		return nil, nil // Treat as cache miss
	}

	var record domain.BookRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, err
	}

	return &store.CachedRecord{
		Record:    record,
		FetchedAt: fetchedTime,
	}, nil
}

// SetCachedRecord stores a metadata lookup result in cache.
func (s *Store) SetCachedRecord(ctx context.Context, key string, record domain.BookRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO metadata_cache (cache_key, data, fetched_at) VALUES (?, ?, ?)`,
		key, string(data), formatTime(time.Now().UTC()))
	return err
}

// DeleteCachedRecord removes a cached lookup.
// This operation is idempotent.
func (s *Store) DeleteCachedRecord(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM metadata_cache WHERE cache_key = ?`, key)
	return err
}
