// Package domain contains the core business entities and domain logic for the ShelfScan book catalog.
package domain

import (
	"strings"
)

// Unknown marks a bibliographic field no source could fill.
const Unknown = "N/A"

// BookRecord is a bibliographic record assembled from one or more
// metadata sources. Fields hold Unknown rather than empty strings so
// merged records always render cleanly.
type BookRecord struct {
	ISBN      string   `json:"isbn"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Publisher string   `json:"publisher"`
	Genre     string   `json:"genre"`
	Year      string   `json:"year"`
	CoverURL  string   `json:"cover_url,omitempty"`
	Sources   []string `json:"sources,omitempty"`
	FromCache bool     `json:"from_cache,omitempty"`
	FromLocal bool     `json:"from_local,omitempty"`
}

// NewBookRecord returns a record for isbn with every field unknown.
func NewBookRecord(isbn string) BookRecord {
	return BookRecord{
		ISBN:      isbn,
		Title:     Unknown,
		Author:    Unknown,
		Publisher: Unknown,
		Genre:     Unknown,
		Year:      Unknown,
	}
}

// Populated reports whether value carries real data, as opposed to
// being empty or the Unknown placeholder.
func Populated(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.EqualFold(v, Unknown)
}

// IsComplete reports whether the record has enough data to catalog
// without further lookups. Genre and year are nice to have; title,
// author, and publisher are the bar.
func (r BookRecord) IsComplete() bool {
	return Populated(r.Title) && Populated(r.Author) && Populated(r.Publisher)
}

// Merge fills this record's unknown fields from other, leaving fields
// that already carry data untouched. Sources accumulate in order of
// first contribution, without duplicates. The merged record is
// returned; neither input is modified.
func (r BookRecord) Merge(other BookRecord) BookRecord {
	merged := r

	if !Populated(merged.ISBN) && Populated(other.ISBN) {
		merged.ISBN = other.ISBN
	}
	if !Populated(merged.Title) && Populated(other.Title) {
		merged.Title = other.Title
	}
	if !Populated(merged.Author) && Populated(other.Author) {
		merged.Author = other.Author
	}
	if !Populated(merged.Publisher) && Populated(other.Publisher) {
		merged.Publisher = other.Publisher
	}
	if !Populated(merged.Genre) && Populated(other.Genre) {
		merged.Genre = other.Genre
	}
	if !Populated(merged.Year) && Populated(other.Year) {
		merged.Year = other.Year
	}
	if merged.CoverURL == "" && other.CoverURL != "" {
		merged.CoverURL = other.CoverURL
	}

	merged.Sources = mergeSources(r.Sources, other.Sources)
	return merged
}

// mergeSources appends extra onto base, preserving order and dropping
// duplicates.
func mergeSources(base, extra []string) []string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range base {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range extra {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
