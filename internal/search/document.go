// Package search provides full-text search over the catalog using
// Bleve. It backs the autocomplete suggestions on the cataloging form
// and the similar-title check that warns before a duplicate save.
package search

import (
	"strconv"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
)

// EntryDocument is the indexed shape of a catalog entry.
type EntryDocument struct {
	ID        string `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	GenreSlug string `json:"genre_slug,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Year      int    `json:"year,omitempty"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names so
// they line up with the index mapping. Bleve would otherwise index the
// capitalized Go field names.
func (d *EntryDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"isbn":       d.ISBN,
		"title":      d.Title,
		"created_at": d.CreatedAt,
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.GenreSlug != "" {
		m["genre_slug"] = d.GenreSlug
	}
	if d.Operator != "" {
		m["operator"] = d.Operator
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	return m
}

// EntryToDocument converts a catalog entry for indexing. The genre
// slug is denormalized by the caller; the search package does not
// reach into the store.
func EntryToDocument(entry *domain.CatalogEntry, genreSlug string) *EntryDocument {
	doc := &EntryDocument{
		ID:        entry.ID,
		ISBN:      entry.ISBN,
		Title:     entry.Title,
		Author:    entry.Author,
		Publisher: entry.Publisher,
		GenreSlug: genreSlug,
		Operator:  entry.Operator,
		CreatedAt: entry.RecordedAt.UnixMilli(),
	}
	if entry.Year != "" {
		if year, err := strconv.Atoi(entry.Year); err == nil {
			doc.Year = year
		}
	}
	return doc
}
