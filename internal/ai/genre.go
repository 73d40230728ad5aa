package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/genre"
)

const (
	suggestMaxTokens   = 100
	suggestTemperature = 0.3

	classifierSystemPrompt = "Você é um especialista em classificação de gêneros " +
		"literários brasileiros. Analise os dados fornecidos e sugira o gênero " +
		"mais adequado da lista fornecida."
)

// SuggestGenre asks the model to pick one genre from the fixed list
// for the given record. An answer outside the list is resolved to its
// closest match; no match means no suggestion. Returns "" when the
// assistant is disabled or the model fails.
func (a *Assistant) SuggestGenre(ctx context.Context, record domain.BookRecord, extraContext string) string {
	settings := a.settings.Get()
	if !settings.Usable() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Analise o seguinte livro e sugira o gênero mais adequado:

Título: %s
Autor: %s
Editora: %s
Gênero atual: %s

Gêneros disponíveis:
%s
`, record.Title, record.Author, record.Publisher, record.Genre,
		strings.Join(genre.DefaultGenres, ", "))

	if extraContext != "" {
		fmt.Fprintf(&sb, "\nContexto adicional:\n%s\n", extraContext)
	}
	sb.WriteString(`
Considere:
- O título do livro
- O autor e sua obra conhecida
- A editora e seu perfil
- O gênero atual (se disponível)
- O contexto cultural brasileiro

Responda APENAS com o nome do gênero mais adequado, sem explicações adicionais.`)

	resp, err := a.client.chat(ctx, settings.APIKey, chatRequest{
		Model: settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: sb.String()},
		},
		MaxTokens:   suggestMaxTokens,
		Temperature: suggestTemperature,
	})
	if err != nil {
		a.logger.Warn("genre suggestion failed", "model", settings.Model, "error", err)
		return ""
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	for _, name := range genre.DefaultGenres {
		if name == answer {
			return name
		}
	}
	if match, ok := genre.CloseMatch(answer, genre.DefaultGenres); ok {
		return match
	}
	return ""
}
