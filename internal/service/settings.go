package service

import (
	"log/slog"
	"strings"

	"github.com/shelfscanapp/shelfscan-server/internal/config"
	domainerrors "github.com/shelfscanapp/shelfscan-server/internal/errors"
)

// SettingsService exposes the runtime-editable AI settings. API keys
// are write-only through this surface: reads come back redacted.
type SettingsService struct {
	settings *config.AISettingsStore
	logger   *slog.Logger
}

// NewSettingsService creates a settings service.
func NewSettingsService(settings *config.AISettingsStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{settings: settings, logger: logger}
}

// AISettingsView is what clients see: the key is reduced to a hint.
type AISettingsView struct {
	KeyHint string `json:"key_hint,omitempty"`
	Model   string `json:"model"`
	Enabled bool   `json:"enabled"`
}

// Get returns the current settings with the API key redacted.
func (s *SettingsService) Get() AISettingsView {
	current := s.settings.Get()
	return AISettingsView{
		KeyHint: keyHint(current.APIKey),
		Model:   current.Model,
		Enabled: current.Enabled,
	}
}

// UpdateAIRequest changes the AI settings. An empty APIKey keeps the
// stored one so clients can toggle or switch models without re-pasting
// the key.
type UpdateAIRequest struct {
	APIKey  string `json:"api_key,omitzero"`
	Model   string `json:"model,omitzero"`
	Enabled bool   `json:"enabled"`
}

// Update applies and persists new settings.
func (s *SettingsService) Update(req UpdateAIRequest) (AISettingsView, error) {
	current := s.settings.Get()

	next := config.AISettings{
		APIKey:  strings.TrimSpace(req.APIKey),
		Model:   strings.TrimSpace(req.Model),
		Enabled: req.Enabled,
	}
	if next.APIKey == "" {
		next.APIKey = current.APIKey
	}
	if next.Model == "" {
		next.Model = config.DefaultAIModel
	}
	if next.Enabled && next.APIKey == "" {
		return AISettingsView{}, domainerrors.Validation("an API key is required to enable AI lookups")
	}

	if err := s.settings.Update(next); err != nil {
		return AISettingsView{}, err
	}

	s.logger.Info("updated ai settings", "model", next.Model, "enabled", next.Enabled)
	return AISettingsView{
		KeyHint: keyHint(next.APIKey),
		Model:   next.Model,
		Enabled: next.Enabled,
	}, nil
}

// keyHint keeps just enough of a key to recognize it.
func keyHint(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
