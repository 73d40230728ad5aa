package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"regexp"
	"strings"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/genre"
)

// maxAuthorFetches caps how many author documents one lookup resolves.
const maxAuthorFetches = 3

var yearPattern = regexp.MustCompile(`\d{4}`)

// FetchByISBN looks up a book by ISBN. Author names require extra
// requests because the book document only carries references; a
// failed author fetch degrades the record rather than failing it.
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (domain.BookRecord, error) {
	record := domain.NewBookRecord(isbn)

	body, err := c.doRequest(ctx, c.baseURL+"/isbn/"+isbn+".json")
	if err != nil {
		return record, err
	}

	var raw rawBook
	if err := json.Unmarshal(body, &raw); err != nil {
		return record, fmt.Errorf("parse response: %w", err)
	}

	if raw.Title != "" {
		record.Title = raw.Title
	}
	if len(raw.Publishers) > 0 && raw.Publishers[0] != "" {
		record.Publisher = raw.Publishers[0]
	}
	if len(raw.Subjects) > 0 {
		record.Genre = genre.Translate(raw.Subjects[0])
	}
	if year := yearPattern.FindString(raw.PublishDate); year != "" {
		record.Year = year
	}
	if len(raw.Covers) > 0 && raw.Covers[0] > 0 {
		record.CoverURL = fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, raw.Covers[0])
	}

	if authors := c.fetchAuthors(ctx, raw.Authors); authors != "" {
		record.Author = authors
	}

	record.Sources = []string{SourceName}
	return record, nil
}

// fetchAuthors resolves up to maxAuthorFetches author references into
// a comma-joined name list.
func (c *Client) fetchAuthors(ctx context.Context, refs []rawAuthRef) string {
	var names []string
	for _, ref := range refs {
		if len(names) >= maxAuthorFetches {
			break
		}
		if ref.Key == "" {
			continue
		}

		body, err := c.doRequest(ctx, c.baseURL+ref.Key+".json")
		if err != nil {
			c.logger.Warn("failed to fetch author", "key", ref.Key, "error", err)
			continue
		}

		var author rawAuthor
		if err := json.Unmarshal(body, &author); err != nil {
			c.logger.Warn("failed to parse author", "key", ref.Key, "error", err)
			continue
		}

		name := author.Name
		if name == "" {
			name = author.PersonalName
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
