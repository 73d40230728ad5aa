package ai

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
)

// Tool names form a closed set. Anything else coming back from the
// model is rejected with an error message the model can read.
const (
	toolOpenLibraryISBN   = "openlibrary_isbn"
	toolGoogleBooksISBN   = "googlebooks_isbn"
	toolTitleAuthorSearch = "title_author_search"
	toolWebSearch         = "web_search"
	toolBrazilianBooks    = "brazilian_books"
)

// TitleAuthorSearcher finds records and free-text context by query
// rather than by ISBN.
type TitleAuthorSearcher interface {
	SearchByTitleAuthor(ctx context.Context, title, author string) (domain.BookRecord, error)
	SearchContext(ctx context.Context, query string) (string, error)
}

// Toolset executes the model's tool calls against the real metadata
// providers and keeps the best record assembled so far.
type Toolset struct {
	openLibrary metadata.Source
	googleBooks metadata.Source
	searcher    TitleAuthorSearcher
	logger      *slog.Logger
}

func NewToolset(openLibrary, googleBooks metadata.Source, searcher TitleAuthorSearcher, logger *slog.Logger) *Toolset {
	return &Toolset{
		openLibrary: openLibrary,
		googleBooks: googleBooks,
		searcher:    searcher,
		logger:      logger.With("component", "ai_tools"),
	}
}

func (t *Toolset) specs() []toolSpec {
	isbnParams := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isbn": map[string]any{
				"type":        "string",
				"description": "ISBN-10 or ISBN-13, digits only",
			},
		},
		"required": []string{"isbn"},
	}
	return []toolSpec{
		{Type: "function", Function: functionSpec{
			Name:        toolOpenLibraryISBN,
			Description: "Look up a book by ISBN on Open Library.",
			Parameters:  isbnParams,
		}},
		{Type: "function", Function: functionSpec{
			Name:        toolGoogleBooksISBN,
			Description: "Look up a book by ISBN on Google Books.",
			Parameters:  isbnParams,
		}},
		{Type: "function", Function: functionSpec{
			Name:        toolTitleAuthorSearch,
			Description: "Search for a book by title and optionally author.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":  map[string]any{"type": "string"},
					"author": map[string]any{"type": "string"},
				},
				"required": []string{"title"},
			},
		}},
		{Type: "function", Function: functionSpec{
			Name:        toolWebSearch,
			Description: "Free-text search returning short descriptions of matching books.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string"},
				},
				"required": []string{"query"},
			},
		}},
		{Type: "function", Function: functionSpec{
			Name:        toolBrazilianBooks,
			Description: "Look up well-known Brazilian literature by title.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{"type": "string"},
				},
				"required": []string{"title"},
			},
		}},
	}
}

type toolArgs struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Query  string `json:"query"`
}

// run dispatches one tool call and returns the text to feed back to
// the model. A record is also returned when the tool produced one, so
// the caller can keep the best result even if the model never answers.
func (t *Toolset) run(ctx context.Context, call toolCall) (string, *domain.BookRecord) {
	var args toolArgs
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return fmt.Sprintf("error: invalid arguments: %v", err), nil
	}

	switch call.Function.Name {
	case toolOpenLibraryISBN:
		return t.fetchISBN(ctx, t.openLibrary, args.ISBN)
	case toolGoogleBooksISBN:
		return t.fetchISBN(ctx, t.googleBooks, args.ISBN)
	case toolTitleAuthorSearch:
		if strings.TrimSpace(args.Title) == "" {
			return "error: title is required", nil
		}
		record, err := t.searcher.SearchByTitleAuthor(ctx, args.Title, args.Author)
		if err != nil {
			t.logger.Debug("title/author search failed", "title", args.Title, "error", err)
			return "no results found", nil
		}
		return recordText(record), &record
	case toolWebSearch:
		if strings.TrimSpace(args.Query) == "" {
			return "error: query is required", nil
		}
		digest, err := t.searcher.SearchContext(ctx, args.Query)
		if err != nil || digest == "" {
			return "no results found", nil
		}
		return digest, nil
	case toolBrazilianBooks:
		record, ok := lookupBrazilianBook(args.Title)
		if !ok {
			return "no results found", nil
		}
		return recordText(record), &record
	default:
		return fmt.Sprintf("error: unknown tool %q", call.Function.Name), nil
	}
}

func (t *Toolset) fetchISBN(ctx context.Context, source metadata.Source, isbn string) (string, *domain.BookRecord) {
	if strings.TrimSpace(isbn) == "" {
		return "error: isbn is required", nil
	}
	record, err := source.FetchByISBN(ctx, isbn)
	if err != nil {
		t.logger.Debug("tool lookup failed", "source", source.Name(), "isbn", isbn, "error", err)
		return "no results found", nil
	}
	return recordText(record), &record
}

// recordText renders a record as compact JSON for the model.
func recordText(record domain.BookRecord) string {
	data, err := json.Marshal(map[string]string{
		"title":     record.Title,
		"author":    record.Author,
		"publisher": record.Publisher,
		"genre":     record.Genre,
		"year":      record.Year,
		"isbn":      record.ISBN,
	}, json.Deterministic(true))
	if err != nil {
		return "no results found"
	}
	return string(data)
}
