package providers

import (
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/config"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

// StoreHandle wraps the catalog store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "catalog.db")
	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}
	st.SetCacheTTL(cfg.Metadata.CacheTTL)

	log.Info("Catalog database opened", "path", dbPath, "cache_ttl", cfg.Metadata.CacheTTL)

	return &StoreHandle{Store: st}, nil
}

// AISettingsHandle wraps the runtime AI settings store with shutdown capability.
type AISettingsHandle struct {
	*config.AISettingsStore
}

// Shutdown implements do.Shutdownable.
func (h *AISettingsHandle) Shutdown() error {
	return h.Close()
}

// ProvideAISettings provides the runtime-editable AI settings store.
func ProvideAISettings(i do.Injector) (*AISettingsHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	settings, err := config.NewAISettingsStore(cfg.AI.SettingsPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("opening AI settings: %w", err)
	}

	return &AISettingsHandle{AISettingsStore: settings}, nil
}
