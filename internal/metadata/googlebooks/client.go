// Package googlebooks provides a client for the Google Books volumes API.
package googlebooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	volumesPath    = "/books/v1/volumes"

	defaultTimeout = 30 * time.Second
)

// SourceName identifies this provider in merged records.
const SourceName = "Google Books"

// Client is a rate-limited Google Books client.
type Client struct {
	http        *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	apiKey      string
}

// New creates a new Google Books client. The API key is optional;
// without one Google applies per-IP quotas.
func New(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
	}
}

// Name implements metadata.Source.
func (c *Client) Name() string { return SourceName }

// volumes executes a rate-limited volumes query.
func (c *Client) volumes(ctx context.Context, q string, maxResults int) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", q)
	if maxResults > 0 {
		params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	reqURL := c.baseURL + volumesPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ShelfScan/1.0")

	c.logger.Debug("google books request", "query", q)

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
