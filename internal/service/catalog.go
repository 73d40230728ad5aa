package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/id"
	"github.com/shelfscanapp/shelfscan-server/internal/media/covers"
	"github.com/shelfscanapp/shelfscan-server/internal/normalize"
	"github.com/shelfscanapp/shelfscan-server/internal/search"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
	"github.com/shelfscanapp/shelfscan-server/internal/validation"
)

// similarCutoff is the minimum title similarity for a duplicate warning.
const similarCutoff = 0.8

// CatalogService persists confirmed records as catalog entries and
// keeps the search index and cover cache in step with the store.
type CatalogService struct {
	store      *sqlite.Store
	index      *search.Index
	downloader *covers.Downloader
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewCatalogService creates a catalog service. downloader may be nil
// to disable cover prefetching.
func NewCatalogService(store *sqlite.Store, index *search.Index, downloader *covers.Downloader, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:      store,
		index:      index,
		downloader: downloader,
		validator:  validation.New(),
		logger:     logger,
	}
}

// SaveRequest is a confirmed record ready to be cataloged. Quantity N
// produces N independent entries, one per physical copy.
type SaveRequest struct {
	Barcode   string `json:"barcode" validate:"required,isbn"`
	Title     string `json:"title" validate:"required,max=500"`
	Author    string `json:"author" validate:"required,max=500"`
	Publisher string `json:"publisher" validate:"required,max=500"`
	Genre     string `json:"genre" validate:"required,max=100"`
	Year      string `json:"year,omitzero" validate:"max=10"`
	CoverURL  string `json:"cover_url,omitzero" validate:"omitempty,url"`
	Operator  string `json:"operator" validate:"required,max=100"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=100"`
}

// SaveResult reports what was created, plus any near-duplicate titles
// already on the shelf. Similar matches are a warning, not a refusal;
// the save has already happened when they are returned.
type SaveResult struct {
	Entries []*domain.CatalogEntry `json:"entries"`
	Similar []domain.SimilarEntry  `json:"similar,omitempty"`
}

// Save validates and catalogs a request.
func (s *CatalogService) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	g, err := s.store.GetOrCreateGenreByName(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	similar, err := s.FindSimilar(ctx, req.Title, 5)
	if err != nil {
		s.logger.Warn("similar-title check failed", "title", req.Title, "error", err)
		similar = nil
	}

	now := time.Now().UTC()
	entries := make([]*domain.CatalogEntry, 0, req.Quantity)
	for range req.Quantity {
		entries = append(entries, &domain.CatalogEntry{
			ID:         id.MustGenerate("ent"),
			ISBN:       req.Barcode,
			Title:      req.Title,
			Author:     req.Author,
			Publisher:  req.Publisher,
			GenreID:    g.ID,
			GenreName:  g.Name,
			Year:       req.Year,
			CoverURL:   req.CoverURL,
			Operator:   req.Operator,
			RecordedAt: now,
			UpdatedAt:  now,
		})
	}

	if err := s.store.CreateEntries(ctx, entries); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if err := s.index.IndexEntry(search.EntryToDocument(entry, g.Slug)); err != nil {
			s.logger.Warn("index entry failed", "id", entry.ID, "error", err)
		}
	}

	s.prefetchCover(req.Barcode, req.CoverURL)

	s.logger.Info("cataloged entries",
		"isbn", req.Barcode,
		"title", req.Title,
		"quantity", req.Quantity,
		"operator", req.Operator)

	return &SaveResult{Entries: entries, Similar: similar}, nil
}

// UpdateRequest carries the editable fields of an entry.
type UpdateRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	Author    string `json:"author,omitzero" validate:"max=500"`
	Publisher string `json:"publisher,omitzero" validate:"max=500"`
	Genre     string `json:"genre,omitzero" validate:"max=100"`
	Year      string `json:"year,omitzero" validate:"max=10"`
	CoverURL  string `json:"cover_url,omitzero" validate:"omitempty,url"`
	Operator  string `json:"operator" validate:"required,max=100"`
}

// Update edits an existing entry and reindexes it.
func (s *CatalogService) Update(ctx context.Context, entryID string, req UpdateRequest) (*domain.CatalogEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	genreSlug := ""
	if req.Genre != "" {
		g, err := s.store.GetOrCreateGenreByName(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		entry.GenreID = g.ID
		entry.GenreName = g.Name
		genreSlug = g.Slug
	} else {
		entry.GenreID = ""
		entry.GenreName = ""
	}

	entry.Title = req.Title
	entry.Author = req.Author
	entry.Publisher = req.Publisher
	entry.Year = req.Year
	entry.CoverURL = req.CoverURL
	entry.Operator = req.Operator
	entry.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.index.IndexEntry(search.EntryToDocument(entry, genreSlug)); err != nil {
		s.logger.Warn("reindex entry failed", "id", entry.ID, "error", err)
	}

	return entry, nil
}

// Delete removes one entry (one physical copy).
func (s *CatalogService) Delete(ctx context.Context, entryID string) error {
	if err := s.store.DeleteEntry(ctx, entryID); err != nil {
		return err
	}

	if err := s.index.DeleteEntry(entryID); err != nil {
		s.logger.Warn("unindex entry failed", "id", entryID, "error", err)
	}
	return nil
}

// Get returns one entry by ID.
func (s *CatalogService) Get(ctx context.Context, entryID string) (*domain.CatalogEntry, error) {
	return s.store.GetEntry(ctx, entryID)
}

// List returns entries newest first, filtered by the options.
func (s *CatalogService) List(ctx context.Context, opts sqlite.ListOptions) ([]*domain.CatalogEntry, error) {
	return s.store.ListEntries(ctx, opts)
}

// Suggest returns autocomplete candidates for a partial title.
func (s *CatalogService) Suggest(ctx context.Context, prefix string, limit int) ([]search.Hit, error) {
	return s.index.Suggest(ctx, prefix, limit)
}

// FindSimilar returns cataloged entries whose titles closely match
// the candidate, scored by normalized similarity and filtered to
// near-duplicates.
func (s *CatalogService) FindSimilar(ctx context.Context, title string, limit int) ([]domain.SimilarEntry, error) {
	if title == "" {
		return nil, nil
	}

	hits, err := s.index.SimilarTitles(ctx, title, limit)
	if err != nil {
		return nil, err
	}

	var similar []domain.SimilarEntry
	for _, hit := range hits {
		score := normalize.Similarity(title, hit.Title)
		if score < similarCutoff {
			continue
		}
		entry, err := s.store.GetEntry(ctx, hit.ID)
		if err != nil {
			continue
		}
		similar = append(similar, domain.SimilarEntry{Entry: *entry, Score: score})
	}
	return similar, nil
}

// RebuildIndex reindexes the whole catalog, resolving genre slugs as
// it goes. Used at startup when the index version changes.
func (s *CatalogService) RebuildIndex(ctx context.Context) error {
	entries, err := s.store.ListEntries(ctx, sqlite.ListOptions{})
	if err != nil {
		return err
	}

	slugs := make(map[string]string)
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return err
	}
	for _, g := range genres {
		slugs[g.ID] = g.Slug
	}

	docs := make([]*search.EntryDocument, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, search.EntryToDocument(entry, slugs[entry.GenreID]))
	}
	if err := s.index.IndexEntries(docs); err != nil {
		return err
	}

	s.logger.Info("rebuilt search index", "entries", len(docs))
	return nil
}

// prefetchCover downloads the cover in the background so a slow image
// host never delays the save.
func (s *CatalogService) prefetchCover(isbn, url string) {
	if s.downloader == nil || url == "" || isbn == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		if result := s.downloader.Download(ctx, isbn, url); !result.Success {
			s.logger.Debug("cover prefetch failed", "isbn", isbn, "error", result.Error)
		}
	}()
}
