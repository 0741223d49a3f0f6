package services

import (
	"context"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

const (
	DefaultWindowDays = 30
	DefaultTrendWeeks = 12
)

// StatsService computes read-side statistics straight from the completion
// history. Nothing here trusts the cached streak columns: the engine is
// the single source of streak semantics.
type StatsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
}

func NewStatsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository) *StatsService {
	return &StatsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
	}
}

func (s *StatsService) completionSet(ctx context.Context, habitID string) (engine.CompletionSet, error) {
	days, err := s.completionRepo.ListDaysByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	return engine.CompletionSetFromTimes(days), nil
}

// referenceFor clamps the reference day so a habit created today is
// queried on its own anchor rather than rejected by the engine.
func referenceFor(habit *domain.Habit, input domain.StatsInput) engine.Day {
	ref := engine.DayOf(input.ReferenceDate.UTC())
	if anchor := habit.Anchor(); ref < anchor {
		ref = anchor
	}
	return ref
}

// GetHabitStats recomputes streaks, the trailing completion rate and the
// weekly trend series for one habit.
func (s *StatsService) GetHabitStats(ctx context.Context, habitID string, input domain.StatsInput) (*domain.HabitStats, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != input.UserID {
		return nil, domain.ErrHabitNotFound
	}

	set, err := s.completionSet(ctx, habitID)
	if err != nil {
		return nil, err
	}

	windowDays := input.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	trendWeeks := input.TrendWeeks
	if trendWeeks <= 0 {
		trendWeeks = DefaultTrendWeeks
	}

	ref := referenceFor(habit, input)
	anchor := habit.Anchor()

	streak, err := engine.ComputeStreak(habit.Rule, anchor, set, ref)
	if err != nil {
		return nil, err
	}

	rate, err := engine.CompletionRate(habit.Rule, anchor, set, windowDays, ref)
	if err != nil {
		return nil, err
	}

	trend, err := engine.WeeklyTrend(habit.Rule, anchor, set, ref, trendWeeks)
	if err != nil {
		return nil, err
	}

	return &domain.HabitStats{
		HabitID:        habit.ID,
		HabitTitle:     habit.Title,
		Color:          habit.Color,
		Icon:           habit.Icon,
		Streak:         streak,
		CompletionRate: rate,
		WindowDays:     windowDays,
		Trend:          trend,
	}, nil
}

// GetHabitStreak recomputes only the streak pair, the cheap call for
// clients that render a habit row without the full stats view.
func (s *StatsService) GetHabitStreak(ctx context.Context, habitID string, input domain.StatsInput) (engine.StreakResult, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return engine.StreakResult{}, err
	}
	if habit.UserID != input.UserID {
		return engine.StreakResult{}, domain.ErrHabitNotFound
	}

	set, err := s.completionSet(ctx, habitID)
	if err != nil {
		return engine.StreakResult{}, err
	}

	return engine.ComputeStreak(habit.Rule, habit.Anchor(), set, referenceFor(habit, input))
}

// GetOverview builds the dashboard: one row per habit with fresh streak
// and rate values plus today's status.
func (s *StatsService) GetOverview(ctx context.Context, input domain.StatsInput) (*domain.Overview, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	windowDays := input.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	overview := &domain.Overview{
		Date:        engine.DayOf(input.ReferenceDate.UTC()).String(),
		WindowDays:  windowDays,
		TotalHabits: len(habits),
		Habits:      make([]domain.HabitOverviewItem, 0, len(habits)),
	}

	for _, habit := range habits {
		if habit.ArchivedAt != nil {
			continue
		}

		set, err := s.completionSet(ctx, habit.ID)
		if err != nil {
			return nil, err
		}

		ref := referenceFor(habit, input)
		anchor := habit.Anchor()

		streak, err := engine.ComputeStreak(habit.Rule, anchor, set, ref)
		if err != nil {
			return nil, err
		}

		rate, err := engine.CompletionRate(habit.Rule, anchor, set, windowDays, ref)
		if err != nil {
			return nil, err
		}

		overview.Habits = append(overview.Habits, domain.HabitOverviewItem{
			HabitID:        habit.ID,
			HabitTitle:     habit.Title,
			Color:          habit.Color,
			Icon:           habit.Icon,
			CurrentStreak:  streak.Current,
			LongestStreak:  streak.Longest,
			StreakUnit:     string(streak.Unit),
			CompletionRate: rate,
			ActiveToday:    engine.IsActiveDay(ref, habit.Rule, anchor),
			CompletedToday: set.Has(ref),
		})
	}

	return overview, nil
}
