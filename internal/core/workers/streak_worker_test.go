package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

func dailyHabit(t *testing.T, daysAgo int) *domain.Habit {
	t.Helper()
	rule, err := engine.Daily(1)
	require.NoError(t, err)

	h, err := domain.NewHabit("u1", "Test Habit", rule)
	require.NoError(t, err)
	h.StartDate = time.Now().UTC().AddDate(0, 0, -daysAgo)
	return h
}

func TestRecomputeStreak_Daily(t *testing.T) {
	now := time.Now().UTC()
	daysAgo := func(n int) time.Time {
		return now.AddDate(0, 0, -n)
	}

	tests := []struct {
		name        string
		completions []time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "Empty completions",
			completions: nil,
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "Single completion today",
			completions: []time.Time{now},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "Single completion 2 days ago (streak broken)",
			completions: []time.Time{daysAgo(2)},
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "Perfect streak",
			completions: []time.Time{now, daysAgo(1), daysAgo(2)},
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "Longest streak in the past",
			completions: []time.Time{now, daysAgo(10), daysAgo(11), daysAgo(12)},
			wantCurrent: 1,
			wantLongest: 3,
		},
		{
			name:        "Duplicate same-day timestamps count once",
			completions: []time.Time{now, now.Add(-1 * time.Hour), daysAgo(1)},
			wantCurrent: 2,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit := dailyHabit(t, 30)

			result, err := RecomputeStreak(habit, tt.completions, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, result.Current, "Current Streak mismatch")
			assert.Equal(t, tt.wantLongest, result.Longest, "Longest Streak mismatch")
			assert.Equal(t, engine.UnitDays, result.Unit)
		})
	}
}

func TestRecomputeStreak_AnchorGating(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Completions before the anchor are ignored", func(t *testing.T) {
		habit := dailyHabit(t, 1)

		result, err := RecomputeStreak(habit, []time.Time{
			now,
			now.AddDate(0, 0, -1),
			now.AddDate(0, 0, -5), // pre-anchor noise
		}, now)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Current)
		assert.Equal(t, 2, result.Longest)
	})

	t.Run("Habit created today never rejects the reference", func(t *testing.T) {
		habit := dailyHabit(t, 0)

		result, err := RecomputeStreak(habit, nil, now)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Current)
	})
}

func TestRecomputeStreak_WeeklyCountUnit(t *testing.T) {
	rule, err := engine.WeeklyCount(1)
	require.NoError(t, err)

	habit, err := domain.NewHabit("u1", "Any Day Habit", rule)
	require.NoError(t, err)

	now := time.Now().UTC()
	habit.StartDate = now.AddDate(0, 0, -21)

	result, err := RecomputeStreak(habit, []time.Time{now}, now)
	require.NoError(t, err)
	assert.Equal(t, engine.UnitWeeks, result.Unit, "weekly-count streaks are reported in weeks")
	assert.Equal(t, 1, result.Current)
}
