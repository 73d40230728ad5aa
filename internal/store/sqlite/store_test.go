package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/id"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testEntry builds a valid entry with a fresh ID.
func testEntry(t *testing.T, title, operator string) *domain.CatalogEntry {
	t.Helper()
	entryID, err := id.Generate("entry")
	if err != nil {
		t.Fatalf("generate id: %v", err)
	}
	now := time.Now().UTC()
	return &domain.CatalogEntry{
		ID:         entryID,
		ISBN:       "9788535902778",
		Title:      title,
		Author:     "Machado de Assis",
		Publisher:  "Companhia das Letras",
		Year:       "2008",
		Operator:   operator,
		RecordedAt: now,
		UpdatedAt:  now,
	}
}

func mustCreate(t *testing.T, s *Store, entries ...*domain.CatalogEntry) {
	t.Helper()
	if err := s.CreateEntries(context.Background(), entries); err != nil {
		t.Fatalf("create entries: %v", err)
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	for _, table := range []string{"entries", "genres", "metadata_cache"} {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	mustCreate(t, s, testEntry(t, "Dom Casmurro", "ana"))
	s.Close()

	// Schema migration must be idempotent across restarts.
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	n, err := s2.CountEntries(context.Background())
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 entry after reopen, got %d", n)
	}
}
