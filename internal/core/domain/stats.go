package domain

import (
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

// HabitStats is the full per-habit statistics view: the cached streak is
// bypassed here and everything is recomputed from the completion history.
type HabitStats struct {
	HabitID        string              `json:"habit_id"`
	HabitTitle     string              `json:"habit_title"`
	Color          string              `json:"color"`
	Icon           string              `json:"icon"`
	Streak         engine.StreakResult `json:"streak"`
	CompletionRate int                 `json:"completion_rate"`
	WindowDays     int                 `json:"window_days"`
	Trend          []engine.TrendPoint `json:"trend"`
}

// HabitOverviewItem is the condensed per-habit row of the dashboard.
type HabitOverviewItem struct {
	HabitID        string `json:"habit_id"`
	HabitTitle     string `json:"habit_title"`
	Color          string `json:"color"`
	Icon           string `json:"icon"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	StreakUnit     string `json:"streak_unit"`
	CompletionRate int    `json:"completion_rate"`
	ActiveToday    bool   `json:"active_today"`
	CompletedToday bool   `json:"completed_today"`
}

type Overview struct {
	Date        string              `json:"date"`
	WindowDays  int                 `json:"window_days"`
	TotalHabits int                 `json:"total_habits"`
	Habits      []HabitOverviewItem `json:"habits"`
}

type StatsInput struct {
	UserID        string
	ReferenceDate time.Time
	WindowDays    int
	TrendWeeks    int
}
