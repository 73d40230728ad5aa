package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/config"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
	"github.com/shelfscanapp/shelfscan-server/internal/search"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

// SearchIndexHandle wraps the title index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve title index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Title index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerReindexIfNeeded rebuilds the title index in the background when
// it is empty while the catalog is not, which happens after the index
// directory is deleted or the mapping version changes.
func TriggerReindexIfNeeded(i do.Injector) {
	catalogService := do.MustInvoke[*service.CatalogService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	entries, err := storeHandle.ListEntries(ctx, sqlite.ListOptions{Limit: 1})
	if err != nil || len(entries) == 0 {
		return
	}

	log.Info("Title index is empty but catalog entries exist, triggering reindex")

	go func() {
		if err := catalogService.RebuildIndex(context.Background()); err != nil {
			log.Error("Title index rebuild failed", "error", err)
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Title index rebuild completed", "documents", count)
	}()
}
