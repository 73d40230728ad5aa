package ai

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(testLogger())
	client.baseURL = server.URL
	return client
}

func completionJSON(content string) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(data)
}

func TestComplete(t *testing.T) {
	var gotAuth, gotReferer, gotTitle string
	var gotReq chatRequest

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		io.WriteString(w, completionJSON("  Dom Casmurro  "))
	}))

	got, err := client.Complete(context.Background(), "sk-test", "openai/gpt-4o", "qual o livro?", 100, 0.3)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "Dom Casmurro" {
		t.Errorf("content = %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReferer == "" || gotTitle == "" {
		t.Error("attribution headers missing")
	}
	if gotReq.Model != "openai/gpt-4o" || gotReq.MaxTokens != 100 {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestComplete_NoAPIKey(t *testing.T) {
	client := NewClient(testLogger())
	if _, err := client.Complete(context.Background(), "", "m", "p", 10, 0); err != ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestChat_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, completionJSON("ok"))
	}))

	got, err := client.Complete(context.Background(), "sk-test", "m", "p", 10, 0)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "ok" {
		t.Errorf("content = %q", got)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", calls.Load())
	}
}

func TestChat_BadRequestIsFatal(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"bad model"}}`)
	}))

	if _, err := client.Complete(context.Background(), "sk-test", "m", "p", 10, 0); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d requests", calls.Load())
	}
}

func TestChat_ErrorEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
	}))

	_, err := client.Complete(context.Background(), "sk-test", "m", "p", 10, 0)
	if err == nil {
		t.Fatal("expected error from error envelope")
	}
}
