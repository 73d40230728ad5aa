package openlibrary

// rawBook is the /isbn/{isbn}.json response envelope.
type rawBook struct {
	Title       string       `json:"title"`
	Publishers  []string     `json:"publishers"`
	Subjects    []string     `json:"subjects"`
	PublishDate string       `json:"publish_date"`
	Covers      []int64      `json:"covers"`
	Authors     []rawAuthRef `json:"authors"`
}

// rawAuthRef points at an author document, e.g. "/authors/OL26320A".
type rawAuthRef struct {
	Key string `json:"key"`
}

// rawAuthor is the author document envelope.
type rawAuthor struct {
	Name         string `json:"name"`
	PersonalName string `json:"personal_name"`
}
