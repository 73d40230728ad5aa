package domain

import "time"

// CatalogEntry is one physical book on the shelf. Saving a quantity
// of N creates N entries so each copy can be tracked and removed
// independently.
type CatalogEntry struct {
	ID         string    `json:"id"`
	ISBN       string    `json:"isbn,omitempty"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	Publisher  string    `json:"publisher,omitempty"`
	GenreID    string    `json:"genre_id,omitempty"`
	GenreName  string    `json:"genre,omitempty"`
	Year       string    `json:"year,omitempty"`
	CoverURL   string    `json:"cover_url,omitempty"`
	Operator   string    `json:"operator"`
	RecordedAt time.Time `json:"recorded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Genre is a catalog genre. Entries reference genres by ID, so a
// genre with entries cannot be deleted.
type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// SimilarEntry pairs an existing catalog entry with how closely its
// title matches a candidate save.
type SimilarEntry struct {
	Entry CatalogEntry `json:"entry"`
	Score float64      `json:"score"`
}
