// Package service orchestrates the catalog workflows: metadata
// search, saving entries, genres, statistics, and runtime settings.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shelfscanapp/shelfscan-server/internal/ai"
	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

// LocalSourceName labels records resolved from the catalog itself.
const LocalSourceName = "Acervo Local"

// Assistant is the AI lookup surface the search service needs.
// Satisfied by ai.Assistant.
type Assistant interface {
	Lookup(ctx context.Context, req ai.LookupRequest) (*domain.BookRecord, error)
	SuggestGenre(ctx context.Context, record domain.BookRecord, extraContext string) string
}

// SearchService assembles bibliographic records by cascading over the
// metadata sources, with caching and optional AI fallback. It never
// writes catalog entries; that is CatalogService's job.
type SearchService struct {
	store     *sqlite.Store
	sources   []metadata.Source
	searcher  ai.TitleAuthorSearcher
	assistant Assistant
	logger    *slog.Logger
}

// NewSearchService creates a search service. Sources are consulted in
// slice order. assistant may be nil to disable the AI path entirely.
func NewSearchService(store *sqlite.Store, sources []metadata.Source, searcher ai.TitleAuthorSearcher, assistant Assistant, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:     store,
		sources:   sources,
		searcher:  searcher,
		assistant: assistant,
		logger:    logger,
	}
}

// SearchRequest is one lookup. ISBN alone runs the full cascade;
// title alone goes straight to the title/author path. UseAI permits
// the LLM fallback once everything else is exhausted.
type SearchRequest struct {
	ISBN     string
	Title    string
	Author   string
	Operator string
	UseAI    bool
}

// Search resolves a request into a BookRecord. No lookup failure
// propagates; the worst outcome is a record with every field unknown,
// which the caller routes to manual entry.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) domain.BookRecord {
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	if req.ISBN != "" {
		return s.searchByISBN(ctx, req)
	}
	return s.searchByTitle(ctx, req)
}

func (s *SearchService) searchByISBN(ctx context.Context, req SearchRequest) domain.BookRecord {
	// Already-cataloged books never trigger external lookups and never
	// risk being overwritten with lower-quality external data.
	if rec, ok := s.localLookup(ctx, req.ISBN); ok {
		return rec
	}

	if cached := s.cacheLookup(ctx, sqlite.ISBNCacheKey(req.ISBN)); cached != nil {
		return *cached
	}

	record := domain.NewBookRecord(req.ISBN)
	for _, source := range s.sources {
		fragment, err := source.FetchByISBN(ctx, req.ISBN)
		if err != nil {
			if err != metadata.ErrNotFound && err != metadata.ErrNoCredentials {
				s.logger.Debug("source lookup failed", "source", source.Name(), "isbn", req.ISBN, "error", err)
			}
			continue
		}
		record = record.Merge(fragment)
		if record.IsComplete() {
			break
		}
	}

	record = s.backfillPublisher(ctx, record, req.Author)

	if domain.Populated(record.Title) {
		s.cacheStore(ctx, sqlite.ISBNCacheKey(req.ISBN), record)
	}

	// The cascade can come back incomplete; a free-text query by what
	// we know sometimes fills the rest.
	if !record.IsComplete() {
		title := req.Title
		if title == "" && domain.Populated(record.Title) {
			title = record.Title
		}
		if title != "" && s.searcher != nil {
			if fallback, err := s.searcher.SearchByTitleAuthor(ctx, title, req.Author); err == nil {
				record = record.Merge(fallback)
			}
		}
	}

	return s.aiFallback(ctx, req, record)
}

func (s *SearchService) searchByTitle(ctx context.Context, req SearchRequest) domain.BookRecord {
	record := domain.NewBookRecord("")
	record.Title = req.Title
	if req.Author != "" {
		record.Author = req.Author
	}
	if req.Title == "" {
		return record
	}

	key := sqlite.SearchCacheKey(req.Title, req.Author)
	if cached := s.cacheLookup(ctx, key); cached != nil {
		return *cached
	}

	if s.searcher != nil {
		if found, err := s.searcher.SearchByTitleAuthor(ctx, req.Title, req.Author); err == nil {
			record = record.Merge(found)
		}
	}

	if domain.Populated(record.Title) && len(record.Sources) > 0 {
		s.cacheStore(ctx, key, record)
	}

	return s.aiFallback(ctx, req, record)
}

// backfillPublisher issues one title/author query when the cascade
// found a title but no publisher, taking only the publisher side of
// the result so better-sourced fields are not disturbed.
func (s *SearchService) backfillPublisher(ctx context.Context, record domain.BookRecord, author string) domain.BookRecord {
	if domain.Populated(record.Publisher) || !domain.Populated(record.Title) || s.searcher == nil {
		return record
	}

	queryAuthor := author
	if queryAuthor == "" && domain.Populated(record.Author) {
		queryAuthor = record.Author
	}

	found, err := s.searcher.SearchByTitleAuthor(ctx, record.Title, queryAuthor)
	if err != nil || !domain.Populated(found.Publisher) {
		return record
	}

	// Take only the publisher side of the result so better-sourced
	// title/author fields are not disturbed.
	return record.Merge(domain.BookRecord{
		Publisher: found.Publisher,
		Year:      found.Year,
		Sources:   found.Sources,
	})
}

// aiFallback runs the LLM lookup when permitted and still needed.
// Protocol failures downgrade to "could not auto-fill".
func (s *SearchService) aiFallback(ctx context.Context, req SearchRequest, record domain.BookRecord) domain.BookRecord {
	if !req.UseAI || s.assistant == nil || record.IsComplete() {
		return record
	}

	title := req.Title
	if title == "" && domain.Populated(record.Title) {
		title = record.Title
	}
	author := req.Author
	if author == "" && domain.Populated(record.Author) {
		author = record.Author
	}

	found, err := s.assistant.Lookup(ctx, ai.LookupRequest{ISBN: req.ISBN, Title: title, Author: author})
	if err != nil {
		s.logger.Warn("ai lookup failed", "isbn", req.ISBN, "error", err)
		return record
	}
	if found != nil {
		record = record.Merge(*found)
	}
	return record
}

// SuggestGenre asks the assistant to classify a record into one of
// the catalog genres, optionally enriched with search-engine context.
// Returns "" when no confident suggestion is available.
func (s *SearchService) SuggestGenre(ctx context.Context, record domain.BookRecord) string {
	if s.assistant == nil {
		return ""
	}

	var extra string
	if s.searcher != nil && domain.Populated(record.Title) {
		query := record.Title
		if domain.Populated(record.Author) {
			query += " " + record.Author
		}
		if text, err := s.searcher.SearchContext(ctx, query); err == nil {
			extra = text
		}
	}

	return s.assistant.SuggestGenre(ctx, record, extra)
}

// localLookup checks the catalog for an exact barcode match.
func (s *SearchService) localLookup(ctx context.Context, isbn string) (domain.BookRecord, bool) {
	entries, err := s.store.ListEntries(ctx, sqlite.ListOptions{ISBN: isbn, Limit: 1})
	if err != nil {
		s.logger.Warn("catalog lookup failed", "isbn", isbn, "error", err)
		return domain.BookRecord{}, false
	}
	if len(entries) == 0 {
		return domain.BookRecord{}, false
	}

	entry := entries[0]
	record := domain.NewBookRecord(isbn)
	record = record.Merge(domain.BookRecord{
		Title:     entry.Title,
		Author:    entry.Author,
		Publisher: entry.Publisher,
		Genre:     entry.GenreName,
		Year:      entry.Year,
		CoverURL:  entry.CoverURL,
	})
	record.Sources = []string{LocalSourceName}
	record.FromLocal = true
	return record, true
}

// cacheLookup treats every cache-layer failure as a miss.
func (s *SearchService) cacheLookup(ctx context.Context, key string) *domain.BookRecord {
	cached, err := s.store.GetCachedRecord(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return nil
	}
	if cached == nil {
		return nil
	}

	record := cached.Record
	record.FromCache = true
	return &record
}

// cacheStore swallows write failures; caching must never block a search.
func (s *SearchService) cacheStore(ctx context.Context, key string, record domain.BookRecord) {
	record.FromCache = false
	record.FromLocal = false
	if err := s.store.SetCachedRecord(ctx, key, record); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
