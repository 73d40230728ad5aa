package googlebooks

// rawVolumes is the volumes query response envelope.
type rawVolumes struct {
	TotalItems int       `json:"totalItems"`
	Items      []rawItem `json:"items"`
}

type rawItem struct {
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title               string          `json:"title"`
	Authors             []string        `json:"authors"`
	Publisher           string          `json:"publisher"`
	PublishedDate       string          `json:"publishedDate"`
	Description         string          `json:"description"`
	Categories          []string        `json:"categories"`
	ImageLinks          rawImageLinks   `json:"imageLinks"`
	IndustryIdentifiers []rawIdentifier `json:"industryIdentifiers"`
}

type rawImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type rawIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}
