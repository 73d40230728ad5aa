// Package openlibrary provides a client for the Open Library books API.
package openlibrary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"

	defaultTimeout = 30 * time.Second
)

// SourceName identifies this provider in merged records.
const SourceName = "Open Library"

// Client is a rate-limited Open Library client.
type Client struct {
	http        *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	coversURL   string
}

// New creates a new Open Library client.
// Rate limited to roughly 1 request per second, burst of 3; ISBN
// lookups fan out into author fetches, so the burst matters.
func New(logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		baseURL:     defaultBaseURL,
		coversURL:   defaultCoversURL,
	}
}

// Name implements metadata.Source.
func (c *Client) Name() string { return SourceName }

// doRequest executes a rate-limited GET and maps HTTP failures onto
// the shared metadata sentinels.
func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ShelfScan/1.0")

	c.logger.Debug("open library request", "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, metadata.ErrNotFound
	case http.StatusTooManyRequests:
		return nil, metadata.ErrRateLimited
	case http.StatusBadRequest:
		return nil, metadata.ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, metadata.ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
