package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/ai"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
	"github.com/shelfscanapp/shelfscan-server/internal/media/covers"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
)

// ProvideSearchService provides the book lookup orchestrator.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sources := do.MustInvoke[*MetadataSources](i)
	assistant := do.MustInvoke[*ai.Assistant](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(storeHandle.Store, sources.Sources(), sources.GoogleBooks, assistant, log.Logger), nil
}

// ProvideCatalogService provides the catalog entry service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	downloader := do.MustInvoke[*covers.Downloader](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, indexHandle.Index, downloader, log.Logger), nil
}

// ProvideGenreService provides the genre taxonomy service.
func ProvideGenreService(i do.Injector) (*service.GenreService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGenreService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the dashboard and ranking service.
// Streaks and "today" counts follow the server's local timezone.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, time.Local, log.Logger), nil
}

// ProvideSettingsService provides the runtime settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	settingsHandle := do.MustInvoke[*AISettingsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(settingsHandle.AISettingsStore, log.Logger), nil
}
