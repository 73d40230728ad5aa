package config

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DefaultAIModel is used when the settings file names no model.
const DefaultAIModel = "openai/gpt-3.5-turbo"

// AISettings holds the runtime-editable AI assistant settings.
//
// Unlike the rest of the configuration these are expected to change
// while the server runs: an operator pastes in an OpenRouter key or
// switches models from the settings screen, and lookups should pick
// that up without a restart.
type AISettings struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	Enabled bool   `json:"enabled"`
}

// Usable reports whether AI lookups can run at all.
func (s AISettings) Usable() bool {
	return s.Enabled && s.APIKey != ""
}

// ToolCapable reports whether the configured model is known to handle
// tool calling well enough for the multi-step lookup flow. Models not
// on this list still work for plain single-prompt lookups.
func (s AISettings) ToolCapable() bool {
	model := strings.ToLower(s.Model)
	for _, marker := range []string{"gemma", "gpt-4", "claude-3"} {
		if strings.Contains(model, marker) {
			return true
		}
	}
	return false
}

// AISettingsStore persists AISettings to a JSON file and watches it
// for outside edits.
type AISettingsStore struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu       sync.RWMutex
	settings AISettings

	done     chan struct{}
	stopOnce sync.Once
}

// NewAISettingsStore loads settings from path, creating the file with
// defaults if it does not exist, and starts watching it for changes.
func NewAISettingsStore(path string, logger *slog.Logger) (*AISettingsStore, error) {
	s := &AISettingsStore{
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load AI settings: %w", err)
		}
		s.settings = AISettings{Model: DefaultAIModel}
		if err := s.save(s.settings); err != nil {
			return nil, fmt.Errorf("failed to write default AI settings: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %w", err)
	}
	// Watch the parent directory so we survive editors that replace the
	// file instead of writing in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close() //nolint:errcheck // Best-effort cleanup
		return nil, fmt.Errorf("failed to watch settings directory: %w", err)
	}
	s.watcher = watcher

	go s.watch()

	return s, nil
}

// Get returns the current settings.
func (s *AISettingsStore) Get() AISettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update validates and persists new settings.
func (s *AISettingsStore) Update(settings AISettings) error {
	if settings.Model == "" {
		settings.Model = DefaultAIModel
	}

	if err := s.save(settings); err != nil {
		return fmt.Errorf("failed to save AI settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.logger.Info("AI settings updated", "model", settings.Model, "enabled", settings.Enabled)
	return nil
}

// Close stops watching the settings file.
func (s *AISettingsStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			s.watcher.Close() //nolint:errcheck // Best-effort cleanup
		}
	})
	return nil
}

func (s *AISettingsStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var settings AISettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("invalid settings file %s: %w", s.path, err)
	}
	if settings.Model == "" {
		settings.Model = DefaultAIModel
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

func (s *AISettingsStore) save(settings AISettings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(settings, json.Deterministic(true))
	if err != nil {
		return err
	}

	// Write-then-rename keeps concurrent readers from ever seeing a
	// half-written file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *AISettingsStore) watch() {
	for {
		select {
		case <-s.done:
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.load(); err != nil {
				s.logger.Warn("failed to reload AI settings", "path", s.path, "error", err)
				continue
			}
			s.logger.Info("AI settings reloaded", "path", s.path)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("settings watcher error", "error", err)
		}
	}
}
