package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/config"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata/googlebooks"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata/isbndb"
	"github.com/shelfscanapp/shelfscan-server/internal/metadata/openlibrary"
)

// MetadataSources groups the external metadata provider clients in
// cascade order: Open Library first, then Google Books, then ISBNdb.
type MetadataSources struct {
	OpenLibrary *openlibrary.Client
	GoogleBooks *googlebooks.Client
	ISBNdb      *isbndb.Client
}

// Sources returns the providers as an ordered cascade for the search service.
func (m *MetadataSources) Sources() []metadata.Source {
	return []metadata.Source{m.OpenLibrary, m.GoogleBooks, m.ISBNdb}
}

// ProvideMetadataSources provides the external metadata provider clients.
func ProvideMetadataSources(i do.Injector) (*MetadataSources, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	sources := &MetadataSources{
		OpenLibrary: openlibrary.New(log.Logger),
		GoogleBooks: googlebooks.New(cfg.Metadata.GoogleBooksKey, log.Logger),
		ISBNdb:      isbndb.New(cfg.Metadata.ISBNdbKey, log.Logger),
	}

	log.Info("Metadata providers initialized",
		"google_books_key", cfg.Metadata.GoogleBooksKey != "",
		"isbndb_enabled", sources.ISBNdb.Enabled(),
	)

	return sources, nil
}
