package providers

import (
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/config"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
	"github.com/shelfscanapp/shelfscan-server/internal/media/covers"
)

// CoverStoreHandle wraps the cover blob store with shutdown capability.
type CoverStoreHandle struct {
	*covers.Store
}

// Shutdown implements do.Shutdownable.
func (h *CoverStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideCoverStore provides the local cover image cache.
func ProvideCoverStore(i do.Injector) (*CoverStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := covers.NewStore(filepath.Join(cfg.Data.BasePath, "covers"), log.Logger)
	if err != nil {
		return nil, fmt.Errorf("opening cover store: %w", err)
	}

	return &CoverStoreHandle{Store: store}, nil
}

// ProvideCoverDownloader provides the cover image downloader.
func ProvideCoverDownloader(i do.Injector) (*covers.Downloader, error) {
	storeHandle := do.MustInvoke[*CoverStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewDownloader(storeHandle.Store, log.Logger), nil
}
