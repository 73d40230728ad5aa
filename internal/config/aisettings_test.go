package config

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettingsStore(t *testing.T) (*AISettingsStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ai_settings.json")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := NewAISettingsStore(path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() }) //nolint:errcheck // Test cleanup

	return store, path
}

func TestAISettingsStore_CreatesDefaults(t *testing.T) {
	store, path := newTestSettingsStore(t)

	settings := store.Get()
	assert.Equal(t, DefaultAIModel, settings.Model)
	assert.False(t, settings.Enabled)
	assert.Empty(t, settings.APIKey)

	// The file should exist on disk with the defaults.
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk AISettings
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, DefaultAIModel, onDisk.Model)
}

func TestAISettingsStore_Update(t *testing.T) {
	store, _ := newTestSettingsStore(t)

	err := store.Update(AISettings{
		APIKey:  "sk-or-test",
		Model:   "google/gemma-3-27b-it",
		Enabled: true,
	})
	require.NoError(t, err)

	settings := store.Get()
	assert.Equal(t, "sk-or-test", settings.APIKey)
	assert.Equal(t, "google/gemma-3-27b-it", settings.Model)
	assert.True(t, settings.Enabled)
	assert.True(t, settings.Usable())
}

func TestAISettingsStore_UpdateEmptyModelUsesDefault(t *testing.T) {
	store, _ := newTestSettingsStore(t)

	err := store.Update(AISettings{APIKey: "key", Enabled: true})
	require.NoError(t, err)

	assert.Equal(t, DefaultAIModel, store.Get().Model)
}

func TestAISettingsStore_ReloadsOnOutsideEdit(t *testing.T) {
	store, path := newTestSettingsStore(t)

	edited := AISettings{APIKey: "outside-key", Model: "anthropic/claude-3-haiku", Enabled: true}
	data, err := json.Marshal(edited)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	// The watcher delivers asynchronously.
	assert.Eventually(t, func() bool {
		return store.Get().APIKey == "outside-key"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAISettingsStore_LoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai_settings.json")
	existing := AISettings{APIKey: "persisted", Model: "openai/gpt-4o-mini", Enabled: true}
	data, err := json.Marshal(existing)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewAISettingsStore(path, logger)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck // Test cleanup

	assert.Equal(t, existing, store.Get())
}

func TestAISettings_Usable(t *testing.T) {
	assert.False(t, AISettings{Enabled: true}.Usable())
	assert.False(t, AISettings{APIKey: "key"}.Usable())
	assert.True(t, AISettings{APIKey: "key", Enabled: true}.Usable())
}

func TestAISettings_ToolCapable(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"google/gemma-3-27b-it", true},
		{"openai/gpt-4o", true},
		{"anthropic/claude-3-haiku", true},
		{"openai/gpt-3.5-turbo", false},
		{"mistralai/mistral-7b-instruct", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := AISettings{Model: tt.model}.ToolCapable()
			assert.Equal(t, tt.want, got)
		})
	}
}
