package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getAISettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/ai",
		Summary:     "Get AI settings",
		Description: "Returns the AI assistant configuration with the API key redacted",
		Tags:        []string{"Settings"},
	}, s.handleGetAISettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAISettings",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/ai",
		Summary:     "Update AI settings",
		Description: "An empty api_key keeps the stored one",
		Tags:        []string{"Settings"},
	}, s.handleUpdateAISettings)
}

type AISettingsOutput struct {
	Body service.AISettingsView
}

func (s *Server) handleGetAISettings(_ context.Context, _ *struct{}) (*AISettingsOutput, error) {
	return &AISettingsOutput{Body: s.services.Settings.Get()}, nil
}

type UpdateAISettingsInput struct {
	Body service.UpdateAIRequest
}

func (s *Server) handleUpdateAISettings(_ context.Context, input *UpdateAISettingsInput) (*AISettingsOutput, error) {
	view, err := s.services.Settings.Update(input.Body)
	if err != nil {
		return nil, err
	}
	return &AISettingsOutput{Body: view}, nil
}
