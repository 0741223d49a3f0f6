package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

func statsTestSetup(t *testing.T) (*services.StatsService, *MockRepo, *MockCompletionRepo) {
	t.Helper()
	habitRepo := NewMockRepo()
	completionRepo := NewMockCompletionRepo()
	return services.NewStatsService(habitRepo, completionRepo), habitRepo, completionRepo
}

func seedHabit(t *testing.T, repo *MockRepo, userID string, rule engine.Rule, start string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, "Stats Habit", rule)
	require.NoError(t, err)
	startDate, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	h.StartDate = startDate
	require.NoError(t, repo.Create(context.Background(), h))
	return h
}

func seedCompletion(t *testing.T, repo *MockCompletionRepo, habit *domain.Habit, day string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	c := domain.NewCompletion(habit.ID, habit.UserID, d)
	require.NoError(t, repo.Create(context.Background(), c))
}

func TestStatsService_GetHabitStats(t *testing.T) {
	t.Run("Daily habit: streak, rate and trend from history", func(t *testing.T) {
		svc, habitRepo, completionRepo := statsTestSetup(t)

		rule, err := engine.Daily(1)
		require.NoError(t, err)
		habit := seedHabit(t, habitRepo, "user-1", rule, "2024-03-01")
		for _, day := range []string{"2024-03-13", "2024-03-14", "2024-03-15"} {
			seedCompletion(t, completionRepo, habit, day)
		}

		stats, err := svc.GetHabitStats(context.Background(), habit.ID, domain.StatsInput{
			UserID:        "user-1",
			ReferenceDate: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			WindowDays:    7,
			TrendWeeks:    2,
		})

		require.NoError(t, err)
		assert.Equal(t, habit.ID, stats.HabitID)
		assert.Equal(t, 3, stats.Streak.Current)
		assert.Equal(t, 3, stats.Streak.Longest)
		assert.Equal(t, engine.UnitDays, stats.Streak.Unit)
		assert.Equal(t, 43, stats.CompletionRate, "3 of 7 active days")
		assert.Equal(t, 7, stats.WindowDays)

		require.Len(t, stats.Trend, 2)
		assert.Equal(t, "2024-W10", stats.Trend[0].PeriodLabel)
		assert.Equal(t, 7, stats.Trend[0].Expected)
		assert.Equal(t, 0, stats.Trend[0].Completed)
		assert.Equal(t, "2024-W11", stats.Trend[1].PeriodLabel)
		assert.Equal(t, 5, stats.Trend[1].Expected, "current week is clipped at the reference day")
		assert.Equal(t, 3, stats.Trend[1].Completed)
		assert.Equal(t, 60, stats.Trend[1].Rate)
	})

	t.Run("Defaults: window and trend fall back when omitted", func(t *testing.T) {
		svc, habitRepo, _ := statsTestSetup(t)

		rule, err := engine.Daily(1)
		require.NoError(t, err)
		habit := seedHabit(t, habitRepo, "user-1", rule, "2024-01-01")

		stats, err := svc.GetHabitStats(context.Background(), habit.ID, domain.StatsInput{
			UserID:        "user-1",
			ReferenceDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.Equal(t, services.DefaultWindowDays, stats.WindowDays)
		assert.Len(t, stats.Trend, services.DefaultTrendWeeks)
	})

	t.Run("Reference before anchor is clamped, not rejected", func(t *testing.T) {
		svc, habitRepo, _ := statsTestSetup(t)

		rule, err := engine.Daily(1)
		require.NoError(t, err)
		habit := seedHabit(t, habitRepo, "user-1", rule, "2024-06-10")

		stats, err := svc.GetHabitStats(context.Background(), habit.ID, domain.StatsInput{
			UserID:        "user-1",
			ReferenceDate: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.Equal(t, 0, stats.Streak.Current)
	})

	t.Run("Fail: Security - other user's habit looks not found", func(t *testing.T) {
		svc, habitRepo, _ := statsTestSetup(t)

		rule, err := engine.Daily(1)
		require.NoError(t, err)
		habit := seedHabit(t, habitRepo, "user-1", rule, "2024-03-01")

		_, err = svc.GetHabitStats(context.Background(), habit.ID, domain.StatsInput{
			UserID:        "user-2",
			ReferenceDate: time.Now(),
		})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestStatsService_GetOverview(t *testing.T) {
	t.Run("One row per active habit, archived excluded", func(t *testing.T) {
		svc, habitRepo, completionRepo := statsTestSetup(t)
		ctx := context.Background()

		daily, err := engine.Daily(1)
		require.NoError(t, err)
		active := seedHabit(t, habitRepo, "user-1", daily, "2024-03-01")
		seedCompletion(t, completionRepo, active, "2024-03-15")

		archived := seedHabit(t, habitRepo, "user-1", daily, "2024-03-01")
		now := time.Now().UTC()
		habitRepo.store[archived.ID].ArchivedAt = &now

		overview, err := svc.GetOverview(ctx, domain.StatsInput{
			UserID:        "user-1",
			ReferenceDate: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			WindowDays:    7,
		})

		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", overview.Date)
		assert.Equal(t, 2, overview.TotalHabits)
		require.Len(t, overview.Habits, 1)

		row := overview.Habits[0]
		assert.Equal(t, active.ID, row.HabitID)
		assert.Equal(t, 1, row.CurrentStreak)
		assert.True(t, row.ActiveToday)
		assert.True(t, row.CompletedToday)
	})

	t.Run("Weekly habit inactive on the reference day", func(t *testing.T) {
		svc, habitRepo, _ := statsTestSetup(t)

		weekly, err := engine.Weekly(1) // Mondays only
		require.NoError(t, err)
		seedHabit(t, habitRepo, "user-1", weekly, "2024-03-01")

		overview, err := svc.GetOverview(context.Background(), domain.StatsInput{
			UserID:        "user-1",
			ReferenceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), // Friday
		})

		require.NoError(t, err)
		require.Len(t, overview.Habits, 1)
		assert.False(t, overview.Habits[0].ActiveToday)
		assert.False(t, overview.Habits[0].CompletedToday)
	})

	t.Run("Empty account yields empty overview", func(t *testing.T) {
		svc, _, _ := statsTestSetup(t)

		overview, err := svc.GetOverview(context.Background(), domain.StatsInput{
			UserID:        "user-999",
			ReferenceDate: time.Now(),
		})

		require.NoError(t, err)
		assert.Equal(t, 0, overview.TotalHabits)
		assert.Empty(t, overview.Habits)
	})
}
