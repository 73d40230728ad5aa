package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/id"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

func seedEntries(t *testing.T, s *sqlite.Store) {
	t.Helper()
	ctx := context.Background()

	g, err := s.GetOrCreateGenreByName(ctx, "Romance")
	require.NoError(t, err)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	entry := func(title, operator string, at time.Time) *domain.CatalogEntry {
		return &domain.CatalogEntry{
			ID:         id.MustGenerate("ent"),
			ISBN:       "9788535902778",
			Title:      title,
			Author:     "Machado de Assis",
			Publisher:  "Garnier",
			GenreID:    g.ID,
			Operator:   operator,
			RecordedAt: at,
			UpdatedAt:  at,
		}
	}

	require.NoError(t, s.CreateEntries(ctx, []*domain.CatalogEntry{
		entry("Dom Casmurro", "ana", now),
		entry("Dom Casmurro", "ana", now),
		entry("Quincas Borba", "ana", yesterday),
		entry("Memórias Póstumas de Brás Cubas", "bia", now),
	}))
}

func TestDashboard(t *testing.T) {
	s := newTestStore(t)
	seedEntries(t, s)

	svc := NewStatsService(s, time.UTC, testLogger())
	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalEntries)
	assert.Equal(t, 3, stats.DistinctTitles)
	assert.Equal(t, 3, stats.TodayEntries)

	require.NotEmpty(t, stats.Genres)
	assert.Equal(t, "Romance", stats.Genres[0].Name)
	assert.Equal(t, 4, stats.Genres[0].Count)

	assert.NotEmpty(t, stats.Daily)
	require.NotEmpty(t, stats.TopAuthors)
	assert.Equal(t, "Machado de Assis", stats.TopAuthors[0].Name)
	require.NotEmpty(t, stats.TopPublishers)
	assert.Equal(t, "Garnier", stats.TopPublishers[0].Name)
}

func TestDashboard_EmptyCatalog(t *testing.T) {
	svc := NewStatsService(newTestStore(t), time.UTC, testLogger())

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, 0, stats.TodayEntries)
	assert.Empty(t, stats.Genres)
}

func TestRanking(t *testing.T) {
	s := newTestStore(t)
	seedEntries(t, s)

	svc := NewStatsService(s, time.UTC, testLogger())
	ranking, err := svc.Ranking(context.Background())
	require.NoError(t, err)
	require.Len(t, ranking, 2)

	// Ordered by lifetime total.
	assert.Equal(t, "ana", ranking[0].Operator)
	assert.Equal(t, 3, ranking[0].Total)
	assert.Equal(t, 2, ranking[0].Today)
	assert.Equal(t, 2, ranking[0].CurrentStreak, "active yesterday and today")

	assert.Equal(t, "bia", ranking[1].Operator)
	assert.Equal(t, 1, ranking[1].Total)
	assert.Equal(t, 1, ranking[1].CurrentStreak)

	// No one has ten entries yet, so no badges.
	assert.Empty(t, ranking[0].Badges)
}

func TestRanking_Empty(t *testing.T) {
	svc := NewStatsService(newTestStore(t), time.UTC, testLogger())

	ranking, err := svc.Ranking(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ranking)
}
