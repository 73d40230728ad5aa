package domain

import "time"

// NameCount is a label with an occurrence count, used for genre
// distributions and author/publisher rankings.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyCount is the number of entries recorded on one day.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// DashboardStats summarizes the catalog for the dashboard view.
type DashboardStats struct {
	TotalEntries   int          `json:"total_entries"`
	DistinctTitles int          `json:"distinct_titles"`
	TodayEntries   int          `json:"today_entries"`
	Genres         []NameCount  `json:"genres,omitempty"`
	Daily          []DailyCount `json:"daily,omitempty"`
	TopAuthors     []NameCount  `json:"top_authors,omitempty"`
	TopPublishers  []NameCount  `json:"top_publishers,omitempty"`
}

// OperatorStats ranks one operator's cataloging activity.
type OperatorStats struct {
	Operator      string   `json:"operator"`
	Total         int      `json:"total"`
	Today         int      `json:"today"`
	CurrentStreak int      `json:"current_streak"`
	Badges        []string `json:"badges,omitempty"`
}

// Streak returns the length of the run of consecutive active days
// ending today (or yesterday, so an operator who has not yet recorded
// anything today keeps their streak). Days are calendar days in the
// given location; activeDays need not be sorted.
func Streak(activeDays []time.Time, now time.Time, loc *time.Location) int {
	if len(activeDays) == 0 {
		return 0
	}

	active := make(map[string]bool, len(activeDays))
	for _, d := range activeDays {
		active[d.In(loc).Format("2006-01-02")] = true
	}

	day := now.In(loc)
	if !active[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for active[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// AchievementBadges returns the badges earned for a lifetime total.
func AchievementBadges(total int) []string {
	var badges []string
	for _, tier := range []struct {
		threshold int
		badge     string
	}{
		{10, "Iniciante"},
		{50, "Catalogador"},
		{100, "Centurião"},
		{500, "Bibliotecário"},
		{1000, "Lendário"},
	} {
		if total >= tier.threshold {
			badges = append(badges, tier.badge)
		}
	}
	return badges
}
