// Package ai implements the optional LLM-assisted metadata fallback.
// It talks to OpenRouter using the OpenAI chat-completions format and
// lets tool-capable models drive the regular metadata providers.
package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"

	// OpenRouter attribution headers.
	refererURL = "https://github.com/shelfscanapp/shelfscan-server"
	appTitle   = "ShelfScan"

	maxRetries      = 3
	maxResponseSize = 10 * 1024 * 1024
)

// ErrNoAPIKey is returned when a completion is requested without a
// configured OpenRouter key.
var ErrNoAPIKey = errors.New("ai: no API key configured")

// Client is a minimal OpenRouter chat-completions client.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	baseURL string
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger.With("component", "openrouter"),
		baseURL:    defaultBaseURL,
	}
}

// chat performs one completion round trip. Rate-limit responses and
// transport errors are retried with exponential backoff; other
// failures return immediately.
func (c *Client) chat(ctx context.Context, apiKey string, req chatRequest) (*chatResponse, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
		httpReq.Header.Set("HTTP-Referer", refererURL)
		httpReq.Header.Set("X-Title", appTitle)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429): %s", strings.TrimSpace(string(body)))
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("completion failed with status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body)))
		}

		var chatResp chatResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		if chatResp.Error != nil {
			return nil, fmt.Errorf("completion error: %s", chatResp.Error.Message)
		}
		if len(chatResp.Choices) == 0 {
			return nil, errors.New("no completion returned")
		}

		c.logger.Debug("completion finished",
			"model", req.Model,
			"prompt_tokens", chatResp.Usage.PromptTokens,
			"completion_tokens", chatResp.Usage.CompletionTokens)
		return &chatResp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Complete sends a single user prompt and returns the text of the
// first choice.
func (c *Client) Complete(ctx context.Context, apiKey, model, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := c.chat(ctx, apiKey, chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
