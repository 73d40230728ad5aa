// Package main provides the entry point for the ShelfScan server application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/di"
	"github.com/shelfscanapp/shelfscan-server/internal/di/providers"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown all services in reverse order
	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// Database, cover cache and search index use wrapper types, so close
	// them explicitly in case the container missed them
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		log.Info("Closing database...")
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}

	if searchHandle, err := do.Invoke[*providers.SearchIndexHandle](injector); err == nil {
		log.Info("Closing title index...")
		if err := searchHandle.Shutdown(); err != nil {
			log.Error("Failed to close title index", "error", err)
		}
	}

	if coverHandle, err := do.Invoke[*providers.CoverStoreHandle](injector); err == nil {
		log.Info("Closing cover cache...")
		if err := coverHandle.Shutdown(); err != nil {
			log.Error("Failed to close cover cache", "error", err)
		}
	}

	log.Info("See you space cowboy...")
}
