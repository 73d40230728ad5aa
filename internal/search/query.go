package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a catalog search.
type Params struct {
	Query string

	// Filters
	GenreSlug string
	Operator  string
	MinYear   int
	MaxYear   int

	// Pagination
	Limit  int
	Offset int

	// "relevance" (default), "title" or "recent"
	SortBy    string
	SortOrder string
}

// Result is a page of search hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a single matching entry.
type Hit struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	ISBN      string  `json:"isbn,omitempty"`
	Title     string  `json:"title"`
	Author    string  `json:"author,omitempty"`
	Publisher string  `json:"publisher,omitempty"`
	GenreSlug string  `json:"genre_slug,omitempty"`
	Operator  string  `json:"operator,omitempty"`
	Year      int     `json:"year,omitempty"`
}

// Search executes a filtered full-text query over the catalog.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchRequest := bleve.NewSearchRequestOptions(
		buildQuery(params), params.Limit, params.Offset, false)
	addSorting(searchRequest, params)
	searchRequest.Fields = []string{
		"id", "isbn", "title", "author", "publisher", "genre_slug", "operator", "year",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}
	for _, hit := range searchResult.Hits {
		result.Hits = append(result.Hits, hitFromFields(hit.ID, hit.Score, hit.Fields))
	}
	return result, nil
}

// Suggest returns entry titles matching a prefix, for the cataloging
// form's autocomplete. Results are deduplicated by title.
func (s *Index) Suggest(ctx context.Context, prefix string, limit int) ([]Hit, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < 2 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	prefixQuery := bleve.NewPrefixQuery(strings.ToLower(prefix))
	prefixQuery.SetField("title")

	matchQuery := bleve.NewMatchQuery(prefix)
	matchQuery.SetField("title")
	matchQuery.SetBoost(2.0)

	// Over-fetch so title dedup still fills the page.
	searchRequest := bleve.NewSearchRequestOptions(
		bleve.NewDisjunctionQuery(matchQuery, prefixQuery), limit*3, 0, false)
	searchRequest.Fields = []string{
		"id", "isbn", "title", "author", "publisher", "genre_slug", "operator", "year",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute suggest: %w", err)
	}

	seen := make(map[string]bool, limit)
	hits := make([]Hit, 0, limit)
	for _, hit := range searchResult.Hits {
		h := hitFromFields(hit.ID, hit.Score, hit.Fields)
		key := strings.ToLower(h.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		hits = append(hits, h)
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

// SimilarTitles finds entries whose title resembles the given one,
// used to warn the operator before saving a likely duplicate.
func (s *Index) SimilarTitles(ctx context.Context, title string, limit int) ([]Hit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matchQuery := bleve.NewMatchQuery(title)
	matchQuery.SetField("title")
	matchQuery.SetBoost(3.0)

	fuzzyQuery := bleve.NewFuzzyQuery(title)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)

	searchRequest := bleve.NewSearchRequestOptions(
		bleve.NewDisjunctionQuery(matchQuery, fuzzyQuery), limit, 0, false)
	searchRequest.Fields = []string{
		"id", "isbn", "title", "author", "publisher", "genre_slug", "operator", "year",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute similar search: %w", err)
	}

	hits := make([]Hit, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		hits = append(hits, hitFromFields(hit.ID, hit.Score, hit.Fields))
	}
	return hits, nil
}

// buildQuery assembles text matching and filters.
func buildQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		var textQueries []query.Query

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(1.5)
		textQueries = append(textQueries, authorMatch)

		publisherMatch := bleve.NewMatchQuery(params.Query)
		publisherMatch.SetField("publisher")
		textQueries = append(textQueries, publisherMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.GenreSlug != "" {
		gq := bleve.NewTermQuery(params.GenreSlug)
		gq.SetField("genre_slug")
		queries = append(queries, gq)
	}

	if params.Operator != "" {
		oq := bleve.NewMatchQuery(params.Operator)
		oq.SetField("operator")
		queries = append(queries, oq)
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		minYear := float64(params.MinYear)
		maxYear := float64(params.MaxYear)
		if params.MaxYear == 0 {
			maxYear = 3000
		}
		rangeQuery := bleve.NewNumericRangeQuery(&minYear, &maxYear)
		rangeQuery.SetField("year")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}

func hitFromFields(id string, score float64, fields map[string]interface{}) Hit {
	h := Hit{ID: id, Score: score}
	if v, ok := fields["isbn"].(string); ok {
		h.ISBN = v
	}
	if v, ok := fields["title"].(string); ok {
		h.Title = v
	}
	if v, ok := fields["author"].(string); ok {
		h.Author = v
	}
	if v, ok := fields["publisher"].(string); ok {
		h.Publisher = v
	}
	if v, ok := fields["genre_slug"].(string); ok {
		h.GenreSlug = v
	}
	if v, ok := fields["operator"].(string); ok {
		h.Operator = v
	}
	if v, ok := fields["year"].(float64); ok {
		h.Year = int(v)
	}
	return h
}
