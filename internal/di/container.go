// Package di provides dependency injection configuration for the ShelfScan server.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/ai"
	"github.com/shelfscanapp/shelfscan-server/internal/config"
	"github.com/shelfscanapp/shelfscan-server/internal/di/providers"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
	"github.com/shelfscanapp/shelfscan-server/internal/media/covers"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideAISettings)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCoverStore)
	do.Provide(injector, providers.ProvideCoverDownloader)

	// Metadata layer
	do.Provide(injector, providers.ProvideMetadataSources)
	do.Provide(injector, providers.ProvideAssistant)

	// Business services
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideSettingsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.AISettingsHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.CoverStoreHandle](injector)
	_ = do.MustInvoke[*covers.Downloader](injector)
	_ = do.MustInvoke[*providers.MetadataSources](injector)
	_ = do.MustInvoke[*ai.Assistant](injector)

	// Business services
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	genreService := do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Seed the built-in genre taxonomy on first run
	if err := genreService.EnsureDefaults(context.Background()); err != nil {
		return err
	}

	// Rebuild the title index if it got out of sync with the catalog
	providers.TriggerReindexIfNeeded(injector)

	return nil
}
