package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

const (
	dashboardWindow = 30 // days of daily evolution
	rankingLimit    = 10 // top authors/publishers
)

// StatsService aggregates catalog activity for the dashboard and the
// operator ranking.
type StatsService struct {
	store  *sqlite.Store
	loc    *time.Location
	logger *slog.Logger
}

// NewStatsService creates a stats service. Day boundaries (today
// counts, streaks) are computed in loc; pass time.UTC when the server
// has no better idea.
func NewStatsService(store *sqlite.Store, loc *time.Location, logger *slog.Logger) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{store: store, loc: loc, logger: logger}
}

// Dashboard assembles the catalog summary. Individual aggregate
// failures degrade to empty sections rather than failing the whole
// view; only the headline total is load-bearing.
func (s *StatsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	total, err := s.store.CountEntries(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{TotalEntries: total}

	if n, err := s.store.CountDistinctTitles(ctx); err == nil {
		stats.DistinctTitles = n
	} else {
		s.logger.Warn("distinct title count failed", "error", err)
	}

	midnight := s.todayStart()
	if n, err := s.store.CountEntriesSince(ctx, midnight); err == nil {
		stats.TodayEntries = n
	} else {
		s.logger.Warn("today count failed", "error", err)
	}

	if genres, err := s.store.GenreDistribution(ctx); err == nil {
		stats.Genres = genres
	} else {
		s.logger.Warn("genre distribution failed", "error", err)
	}

	since := midnight.AddDate(0, 0, -(dashboardWindow - 1))
	if daily, err := s.store.DailyCounts(ctx, since); err == nil {
		stats.Daily = daily
	} else {
		s.logger.Warn("daily counts failed", "error", err)
	}

	if authors, err := s.store.TopAuthors(ctx, rankingLimit); err == nil {
		stats.TopAuthors = authors
	} else {
		s.logger.Warn("top authors failed", "error", err)
	}

	if publishers, err := s.store.TopPublishers(ctx, rankingLimit); err == nil {
		stats.TopPublishers = publishers
	} else {
		s.logger.Warn("top publishers failed", "error", err)
	}

	return stats, nil
}

// Ranking returns per-operator production, ordered by lifetime total
// (the store's ordering), with streaks and achievement badges.
func (s *StatsService) Ranking(ctx context.Context) ([]domain.OperatorStats, error) {
	totals, err := s.store.OperatorTotals(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.loc)
	midnight := s.todayStart()

	ranking := make([]domain.OperatorStats, 0, len(totals))
	for _, t := range totals {
		op := domain.OperatorStats{
			Operator: t.Name,
			Total:    t.Count,
			Badges:   domain.AchievementBadges(t.Count),
		}

		if n, err := s.store.OperatorCountSince(ctx, t.Name, midnight); err == nil {
			op.Today = n
		} else {
			s.logger.Warn("operator today count failed", "operator", t.Name, "error", err)
		}

		if days, err := s.store.OperatorActiveDays(ctx, t.Name); err == nil {
			op.CurrentStreak = domain.Streak(days, now, s.loc)
		} else {
			s.logger.Warn("operator active days failed", "operator", t.Name, "error", err)
		}

		ranking = append(ranking, op)
	}
	return ranking, nil
}

func (s *StatsService) todayStart() time.Time {
	now := time.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}
