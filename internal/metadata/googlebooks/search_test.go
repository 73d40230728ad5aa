package googlebooks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("", slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	client.http = server.Client()
	client.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	client.baseURL = server.URL
	return client
}

const volumeResponse = `{
	"totalItems": 1,
	"items": [{
		"volumeInfo": {
			"title": "O Alquimista",
			"authors": ["Paulo Coelho"],
			"publisher": "HarperCollins",
			"publishedDate": "1988-04-15",
			"description": "<p>Um <b>pastor</b> andaluz.</p>",
			"categories": ["Fiction"],
			"imageLinks": {
				"smallThumbnail": "https://books.example/small.jpg",
				"thumbnail": "https://books.example/thumb.jpg"
			},
			"industryIdentifiers": [
				{"type": "ISBN_10", "identifier": "0062315005"},
				{"type": "ISBN_13", "identifier": "9780062315007"}
			]
		}
	}]
}`

func TestFetchByISBN(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(volumeResponse)) //nolint:errcheck // Test handler
	}))

	record, err := client.FetchByISBN(context.Background(), "9780062315007")
	if err != nil {
		t.Fatalf("FetchByISBN failed: %v", err)
	}

	if gotQuery != "isbn:9780062315007" {
		t.Errorf("query = %q, want %q", gotQuery, "isbn:9780062315007")
	}
	if record.Title != "O Alquimista" {
		t.Errorf("title = %q", record.Title)
	}
	if record.Author != "Paulo Coelho" {
		t.Errorf("author = %q", record.Author)
	}
	if record.Publisher != "HarperCollins" {
		t.Errorf("publisher = %q", record.Publisher)
	}
	if record.Genre != "Ficção" {
		t.Errorf("genre = %q", record.Genre)
	}
	if record.Year != "1988" {
		t.Errorf("year = %q", record.Year)
	}
	if record.CoverURL != "https://books.example/thumb.jpg" {
		t.Errorf("cover = %q", record.CoverURL)
	}
}

func TestFetchByISBN_EmptyResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"totalItems": 0}`)) //nolint:errcheck // Test handler
	}))

	_, err := client.FetchByISBN(context.Background(), "0000000000")
	if !errors.Is(err, metadata.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchByTitleAuthor(t *testing.T) {
	var gotQuery, gotMax string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Write([]byte(volumeResponse)) //nolint:errcheck // Test handler
	}))

	record, err := client.SearchByTitleAuthor(context.Background(), "O Alquimista", "Paulo Coelho")
	if err != nil {
		t.Fatalf("SearchByTitleAuthor failed: %v", err)
	}

	if gotQuery != "intitle:O Alquimista+inauthor:Paulo Coelho" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotMax != "1" {
		t.Errorf("maxResults = %q, want 1", gotMax)
	}
	// ISBN-13 recovered from industry identifiers, preferred over ISBN-10.
	if record.ISBN != "9780062315007" {
		t.Errorf("isbn = %q, want 9780062315007", record.ISBN)
	}
}

func TestSearchByTitleAuthor_NoAuthor(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(volumeResponse)) //nolint:errcheck // Test handler
	}))

	_, err := client.SearchByTitleAuthor(context.Background(), "O Alquimista", "")
	if err != nil {
		t.Fatalf("SearchByTitleAuthor failed: %v", err)
	}
	if gotQuery != "intitle:O Alquimista" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestSearchContext(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(volumeResponse)) //nolint:errcheck // Test handler
	}))

	digest, err := client.SearchContext(context.Background(), "o alquimista coelho")
	if err != nil {
		t.Fatalf("SearchContext failed: %v", err)
	}

	for _, want := range []string{"O Alquimista", "Paulo Coelho", "9780062315007", "pastor"} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing %q:\n%s", want, digest)
		}
	}
	// HTML tags from the description are stripped.
	if strings.Contains(digest, "<p>") || strings.Contains(digest, "<b>") {
		t.Errorf("digest contains raw HTML:\n%s", digest)
	}
}

func TestPickISBN(t *testing.T) {
	ids := []rawIdentifier{
		{Type: "ISBN_10", Identifier: "0062315005"},
		{Type: "ISBN_13", Identifier: "9780062315007"},
	}
	if got := pickISBN(ids); got != "9780062315007" {
		t.Errorf("pickISBN = %q, want ISBN-13", got)
	}

	if got := pickISBN(ids[:1]); got != "0062315005" {
		t.Errorf("pickISBN = %q, want ISBN-10 fallback", got)
	}

	if got := pickISBN(nil); got != "" {
		t.Errorf("pickISBN = %q, want empty", got)
	}
}
