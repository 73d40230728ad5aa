package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/genre"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
)

// searchContextResults is how many volumes a context digest covers.
const searchContextResults = 5

// FetchByISBN looks up a book by ISBN. Google reports misses with an
// empty item list rather than a 404.
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (domain.BookRecord, error) {
	record := domain.NewBookRecord(isbn)

	body, err := c.volumes(ctx, "isbn:"+isbn, 0)
	if err != nil {
		return record, err
	}

	var raw rawVolumes
	if err := json.Unmarshal(body, &raw); err != nil {
		return record, fmt.Errorf("parse response: %w", err)
	}
	if raw.TotalItems == 0 || len(raw.Items) == 0 {
		return record, metadata.ErrNotFound
	}

	fillRecord(&record, &raw.Items[0].VolumeInfo)
	record.Sources = []string{SourceName}
	return record, nil
}

// SearchByTitleAuthor looks up the best single match for a title and
// optional author, recovering the ISBN from the volume's industry
// identifiers when possible.
func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) (domain.BookRecord, error) {
	record := domain.NewBookRecord("")

	q := "intitle:" + title
	if strings.TrimSpace(author) != "" {
		q += "+inauthor:" + author
	}

	body, err := c.volumes(ctx, q, 1)
	if err != nil {
		return record, err
	}

	var raw rawVolumes
	if err := json.Unmarshal(body, &raw); err != nil {
		return record, fmt.Errorf("parse response: %w", err)
	}
	if raw.TotalItems == 0 || len(raw.Items) == 0 {
		return record, metadata.ErrNotFound
	}

	info := &raw.Items[0].VolumeInfo
	fillRecord(&record, info)
	record.ISBN = pickISBN(info.IndustryIdentifiers)
	record.Sources = []string{SourceName}
	return record, nil
}

// SearchContext returns a plain-text digest of the top matches for a
// free-form query, suitable for feeding to the AI assistant as tool
// output.
func (c *Client) SearchContext(ctx context.Context, query string) (string, error) {
	body, err := c.volumes(ctx, query, searchContextResults)
	if err != nil {
		return "", err
	}

	var raw rawVolumes
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if raw.TotalItems == 0 || len(raw.Items) == 0 {
		return "", metadata.ErrNotFound
	}

	var sb strings.Builder
	for i := range raw.Items {
		info := &raw.Items[i].VolumeInfo
		fmt.Fprintf(&sb, "- title: %s\n", info.Title)
		if len(info.Authors) > 0 {
			fmt.Fprintf(&sb, "  authors: %s\n", strings.Join(info.Authors, ", "))
		}
		if info.Publisher != "" {
			fmt.Fprintf(&sb, "  publisher: %s\n", info.Publisher)
		}
		if info.PublishedDate != "" {
			fmt.Fprintf(&sb, "  published: %s\n", info.PublishedDate)
		}
		if isbn := pickISBN(info.IndustryIdentifiers); isbn != "" {
			fmt.Fprintf(&sb, "  isbn: %s\n", isbn)
		}
		if desc := cleanDescription(info.Description); desc != "" {
			fmt.Fprintf(&sb, "  description: %s\n", desc)
		}
	}
	return sb.String(), nil
}

// fillRecord copies volume info into a record, leaving absent fields
// at their unknown placeholders.
func fillRecord(record *domain.BookRecord, info *rawVolumeInfo) {
	if info.Title != "" {
		record.Title = info.Title
	}
	if len(info.Authors) > 0 {
		record.Author = strings.Join(info.Authors, ", ")
	}
	if info.Publisher != "" {
		record.Publisher = info.Publisher
	}
	if len(info.Categories) > 0 {
		record.Genre = genre.Translate(info.Categories[0])
	}
	if len(info.PublishedDate) >= 4 {
		record.Year = info.PublishedDate[:4]
	}
	if info.ImageLinks.Thumbnail != "" {
		record.CoverURL = info.ImageLinks.Thumbnail
	} else if info.ImageLinks.SmallThumbnail != "" {
		record.CoverURL = info.ImageLinks.SmallThumbnail
	}
}

// pickISBN prefers an ISBN-13 over an ISBN-10.
func pickISBN(ids []rawIdentifier) string {
	isbn10 := ""
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	return isbn10
}

// cleanDescription converts the HTML fragments Google returns into
// plain markdown, truncated to keep tool output bounded.
func cleanDescription(desc string) string {
	if desc == "" {
		return ""
	}
	if md, err := htmltomarkdown.ConvertString(desc); err == nil {
		desc = md
	}
	desc = strings.Join(strings.Fields(desc), " ")
	if runes := []rune(desc); len(runes) > 300 {
		desc = string(runes[:300]) + "..."
	}
	return desc
}
