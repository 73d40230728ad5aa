// Package isbndb provides a client for the ISBNdb book API.
//
// ISBNdb is a paid service; the provider is disabled unless an API
// key is configured.
package isbndb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/genre"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
)

const (
	defaultBaseURL = "https://api2.isbndb.com"

	defaultTimeout = 30 * time.Second
)

// SourceName identifies this provider in merged records.
const SourceName = "ISBNdb"

// Client is a rate-limited ISBNdb client.
type Client struct {
	http        *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	apiKey      string
}

// New creates a new ISBNdb client. An empty apiKey yields a client
// whose lookups fail with metadata.ErrNoCredentials.
func New(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		// The basic ISBNdb plan allows 1 request per second.
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:      logger,
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
	}
}

// Name implements metadata.Source.
func (c *Client) Name() string { return SourceName }

// Enabled reports whether the client has credentials to use.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// rawBook is the /book/{isbn} response envelope.
type rawBook struct {
	Book struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Publisher     string   `json:"publisher"`
		Subjects      []string `json:"subjects"`
		DatePublished string   `json:"date_published"`
		Image         string   `json:"image"`
	} `json:"book"`
}

// FetchByISBN looks up a book by ISBN.
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (domain.BookRecord, error) {
	record := domain.NewBookRecord(isbn)

	if !c.Enabled() {
		return record, metadata.ErrNoCredentials
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return record, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/book/"+isbn, nil)
	if err != nil {
		return record, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	c.logger.Debug("isbndb request", "isbn", isbn)

	resp, err := c.http.Do(req)
	if err != nil {
		return record, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return record, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to parsing.
	case resp.StatusCode == http.StatusNotFound:
		return record, metadata.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return record, metadata.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return record, metadata.ErrNoCredentials
	case resp.StatusCode >= 500:
		return record, metadata.ErrServer
	default:
		return record, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var raw rawBook
	if err := json.Unmarshal(body, &raw); err != nil {
		return record, fmt.Errorf("parse response: %w", err)
	}

	b := raw.Book
	if b.Title != "" {
		record.Title = b.Title
	}
	if len(b.Authors) > 0 && b.Authors[0] != "" {
		record.Author = b.Authors[0]
	}
	if b.Publisher != "" {
		record.Publisher = b.Publisher
	}
	if len(b.Subjects) > 0 {
		record.Genre = genre.Translate(b.Subjects[0])
	}
	if len(b.DatePublished) >= 4 {
		record.Year = b.DatePublished[:4]
	}
	if b.Image != "" {
		record.CoverURL = b.Image
	}

	record.Sources = []string{SourceName}
	return record, nil
}
