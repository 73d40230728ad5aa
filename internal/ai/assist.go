package ai

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelfscanapp/shelfscan-server/internal/config"
	"github.com/shelfscanapp/shelfscan-server/internal/domain"
)

const (
	lookupMaxTokens   = 600
	lookupTemperature = 0.1

	librarianSystemPrompt = "Você é um bibliotecário especialista. Forneça informações " +
		"precisas sobre livros quando souber, ou 'N/A' quando não souber. " +
		"Retorne sempre JSON válido sem markdown."
)

// Assistant fills in book records that the regular metadata cascade
// could not complete. Tool-capable models drive the providers through
// tool calls; other models answer from their own knowledge.
type Assistant struct {
	client   *Client
	settings *config.AISettingsStore
	tools    *Toolset
	logger   *slog.Logger

	maxToolRounds int
}

func NewAssistant(client *Client, settings *config.AISettingsStore, tools *Toolset, maxToolRounds int, logger *slog.Logger) *Assistant {
	return &Assistant{
		client:        client,
		settings:      settings,
		tools:         tools,
		logger:        logger.With("component", "ai_assistant"),
		maxToolRounds: maxToolRounds,
	}
}

// LookupRequest carries whatever partial identification is known.
type LookupRequest struct {
	ISBN   string
	Title  string
	Author string
}

func (r LookupRequest) empty() bool {
	return !domain.Populated(r.ISBN) && !domain.Populated(r.Title) && !domain.Populated(r.Author)
}

func (r LookupRequest) describe() string {
	var parts []string
	if domain.Populated(r.ISBN) {
		parts = append(parts, "ISBN: "+r.ISBN)
	}
	if domain.Populated(r.Title) {
		parts = append(parts, "Título: "+r.Title)
	}
	if domain.Populated(r.Author) {
		parts = append(parts, "Autor: "+r.Author)
	}
	return strings.Join(parts, "\n")
}

// Lookup asks the configured model for book data. Returns (nil, nil)
// when the assistant is disabled or the model could not produce a
// usable answer; protocol failures never propagate as hard errors.
func (a *Assistant) Lookup(ctx context.Context, req LookupRequest) (*domain.BookRecord, error) {
	settings := a.settings.Get()
	if !settings.Usable() {
		return nil, nil
	}
	if req.empty() {
		return nil, nil
	}

	var (
		record *domain.BookRecord
		err    error
	)
	if settings.ToolCapable() {
		record, err = a.lookupWithTools(ctx, settings, req)
	} else {
		record, err = a.lookupDirect(ctx, settings, req)
	}
	if err != nil {
		a.logger.Warn("assisted lookup failed", "model", settings.Model, "error", err)
		return nil, nil
	}
	if record != nil {
		record.Sources = []string{fmt.Sprintf("IA (%s)", settings.Model)}
	}
	return record, nil
}

// lookupDirect sends a single prompt and parses the JSON answer.
func (a *Assistant) lookupDirect(ctx context.Context, settings config.AISettings, req LookupRequest) (*domain.BookRecord, error) {
	prompt := fmt.Sprintf(`Você é um bibliotecário especialista com acesso a informações sobre livros publicados.

TAREFA: Forneça informações PRECISAS sobre o seguinte livro:

%s

INSTRUÇÕES IMPORTANTES:
1. Use seu conhecimento sobre livros para preencher os dados
2. Se o livro for conhecido, forneça informações precisas
3. Se NÃO conhecer o livro, retorne "N/A" nos campos desconhecidos
4. NÃO invente dados - apenas forneça o que você SABE
5. Para gênero, use termos em PORTUGUÊS (ex: Ficção, Romance, História, etc.)

FORMATO DE RESPOSTA (apenas JSON, sem texto adicional):
{
    "title": "título completo oficial do livro em português",
    "author": "nome completo do autor principal",
    "publisher": "nome da editora brasileira (se souber)",
    "genre": "gênero literário em português",
    "year": "ano de publicação",
    "isbn13": "ISBN-13 completo (13 dígitos)"
}

IMPORTANTE: Retorne APENAS o JSON, sem explicações antes ou depois.`, req.describe())

	resp, err := a.client.chat(ctx, settings.APIKey, chatRequest{
		Model: settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: librarianSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   lookupMaxTokens,
		Temperature: lookupTemperature,
	})
	if err != nil {
		return nil, err
	}
	return parseRecordAnswer(resp.Choices[0].Message.Content, req.ISBN)
}

// lookupWithTools runs the bounded tool-calling conversation. Each
// round either executes the model's tool calls and feeds results back,
// or takes the final message as the JSON answer. When the round budget
// runs out, the best record collected from tool results wins; failing
// that, a direct title search.
func (a *Assistant) lookupWithTools(ctx context.Context, settings config.AISettings, req LookupRequest) (*domain.BookRecord, error) {
	messages := []chatMessage{
		{Role: "system", Content: librarianSystemPrompt +
			" Use as ferramentas disponíveis para verificar os dados antes de responder."},
		{Role: "user", Content: fmt.Sprintf(
			"Encontre os dados completos do seguinte livro e responda apenas com JSON "+
				"(campos: title, author, publisher, genre, year, isbn13):\n\n%s", req.describe())},
	}

	best := domain.NewBookRecord(req.ISBN)

	for round := 0; round < a.maxToolRounds; round++ {
		resp, err := a.client.chat(ctx, settings.APIKey, chatRequest{
			Model:       settings.Model,
			Messages:    messages,
			MaxTokens:   lookupMaxTokens,
			Temperature: lookupTemperature,
			Tools:       a.tools.specs(),
			ToolChoice:  "auto",
		})
		if err != nil {
			return nil, err
		}

		choice := resp.Choices[0]
		if len(choice.Message.ToolCalls) == 0 {
			return parseRecordAnswer(choice.Message.Content, req.ISBN)
		}

		messages = append(messages, choice.Message)
		for _, call := range choice.Message.ToolCalls {
			result, record := a.tools.run(ctx, call)
			if record != nil {
				best = best.Merge(*record)
			}
			messages = append(messages, chatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    result,
			})
		}
	}

	a.logger.Debug("tool round budget exhausted", "model", settings.Model, "rounds", a.maxToolRounds)

	if domain.Populated(best.Title) {
		return &best, nil
	}
	if domain.Populated(req.Title) {
		record, err := a.tools.searcher.SearchByTitleAuthor(ctx, req.Title, req.Author)
		if err == nil {
			return &record, nil
		}
	}
	return nil, nil
}

// rawAnswer is the JSON shape the model is asked to return.
type rawAnswer struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Genre     string `json:"genre"`
	Year      string `json:"year"`
	ISBN13    string `json:"isbn13"`
}

// parseRecordAnswer extracts the JSON object from a model answer,
// tolerating markdown code fences around it.
func parseRecordAnswer(content, isbn string) (*domain.BookRecord, error) {
	body := stripFences(content)

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in answer")
	}

	var answer rawAnswer
	if err := json.Unmarshal([]byte(body[start:end+1]), &answer); err != nil {
		return nil, fmt.Errorf("parse answer: %w", err)
	}

	record := domain.NewBookRecord(isbn)
	if domain.Populated(answer.Title) {
		record.Title = strings.TrimSpace(answer.Title)
	}
	if domain.Populated(answer.Author) {
		record.Author = strings.TrimSpace(answer.Author)
	}
	if domain.Populated(answer.Publisher) {
		record.Publisher = strings.TrimSpace(answer.Publisher)
	}
	if domain.Populated(answer.Genre) {
		record.Genre = strings.TrimSpace(answer.Genre)
	}
	if domain.Populated(answer.Year) {
		record.Year = strings.TrimSpace(answer.Year)
	}
	if !domain.Populated(record.ISBN) && domain.Populated(answer.ISBN13) {
		record.ISBN = strings.TrimSpace(answer.ISBN13)
	}
	if !domain.Populated(record.Title) {
		return nil, fmt.Errorf("answer has no usable title")
	}
	return &record, nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
	}
	if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}
