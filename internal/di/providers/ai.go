package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/ai"
	"github.com/shelfscanapp/shelfscan-server/internal/config"
	"github.com/shelfscanapp/shelfscan-server/internal/logger"
)

// ProvideAssistant provides the AI lookup assistant. The assistant is
// always constructed; whether it actually answers depends on the
// runtime settings (API key present and lookups enabled).
func ProvideAssistant(i do.Injector) (*ai.Assistant, error) {
	cfg := do.MustInvoke[*config.Config](i)
	settingsHandle := do.MustInvoke[*AISettingsHandle](i)
	sources := do.MustInvoke[*MetadataSources](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := ai.NewClient(log.Logger)
	tools := ai.NewToolset(sources.OpenLibrary, sources.GoogleBooks, sources.GoogleBooks, log.Logger)

	return ai.NewAssistant(client, settingsHandle.AISettingsStore, tools, cfg.AI.MaxToolRounds, log.Logger), nil
}
