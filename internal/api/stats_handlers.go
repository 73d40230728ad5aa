package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/dashboard",
		Summary:     "Catalog dashboard",
		Description: "Totals, today's count, genre distribution, daily evolution, and top authors/publishers",
		Tags:        []string{"Stats"},
	}, s.handleDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRanking",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/ranking",
		Summary:     "Operator ranking",
		Description: "Per-operator production with streaks and achievement badges",
		Tags:        []string{"Stats"},
	}, s.handleRanking)
}

type DashboardOutput struct {
	Body domain.DashboardStats
}

func (s *Server) handleDashboard(ctx context.Context, _ *struct{}) (*DashboardOutput, error) {
	stats, err := s.services.Stats.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardOutput{Body: *stats}, nil
}

type RankingResponse struct {
	Ranking []domain.OperatorStats `json:"ranking" doc:"Operators ordered by lifetime total"`
}

type RankingOutput struct {
	Body RankingResponse
}

func (s *Server) handleRanking(ctx context.Context, _ *struct{}) (*RankingOutput, error) {
	ranking, err := s.services.Stats.Ranking(ctx)
	if err != nil {
		return nil, err
	}
	if ranking == nil {
		ranking = []domain.OperatorStats{}
	}
	return &RankingOutput{Body: RankingResponse{Ranking: ranking}}, nil
}
