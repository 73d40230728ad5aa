package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for entry documents.
//
// Title and author get full-text analysis with term vectors for
// highlighting. Publisher and operator use the simple analyzer so
// names like "Companhia das Letras" match without stemming surprises.
// Genre slug and ISBN are exact-match keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleField)

	authorField := bleve.NewTextFieldMapping()
	authorField.Analyzer = en.AnalyzerName
	authorField.Store = true
	authorField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorField)

	publisherField := bleve.NewTextFieldMapping()
	publisherField.Analyzer = simple.Name
	publisherField.Store = true
	docMapping.AddFieldMappingsAt("publisher", publisherField)

	operatorField := bleve.NewTextFieldMapping()
	operatorField.Analyzer = simple.Name
	operatorField.Store = true
	docMapping.AddFieldMappingsAt("operator", operatorField)

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idField)

	isbnField := bleve.NewTextFieldMapping()
	isbnField.Analyzer = keyword.Name
	isbnField.Store = true
	docMapping.AddFieldMappingsAt("isbn", isbnField)

	genreSlugField := bleve.NewTextFieldMapping()
	genreSlugField.Analyzer = keyword.Name
	genreSlugField.Store = true
	docMapping.AddFieldMappingsAt("genre_slug", genreSlugField)

	yearField := bleve.NewNumericFieldMapping()
	yearField.Store = true
	docMapping.AddFieldMappingsAt("year", yearField)

	createdAtField := bleve.NewNumericFieldMapping()
	createdAtField.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtField)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
