package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
	"github.com/ritmoapp/ritmo-engine/internal/core/workers"
)

type HabitService struct {
	repo   domain.HabitRepository
	worker *workers.StreakWorker
}

func NewHabitService(repo domain.HabitRepository, worker *workers.StreakWorker) *HabitService {
	return &HabitService{
		repo:   repo,
		worker: worker,
	}
}

// RuleInput is the transport-level shape of a recurrence rule. It is
// funneled through the engine constructors so every invalid configuration
// is rejected here, before anything is persisted or evaluated.
type RuleInput struct {
	Kind           string `json:"kind"`
	IntervalDays   int    `json:"interval_days"`
	Weekdays       []int  `json:"weekdays"`
	TimesPerWeek   int    `json:"times_per_week"`
	IntervalMonths int    `json:"interval_months"`
	IntervalYears  int    `json:"interval_years"`
}

func (in RuleInput) ToRule() (engine.Rule, error) {
	switch engine.RuleKind(in.Kind) {
	case engine.KindDaily:
		return engine.Daily(in.IntervalDays)
	case engine.KindWeekly:
		return engine.Weekly(in.Weekdays...)
	case engine.KindWeeklyCount:
		return engine.WeeklyCount(in.TimesPerWeek)
	case engine.KindMonthly:
		return engine.Monthly(in.IntervalMonths)
	case engine.KindAnnual:
		return engine.Annual(in.IntervalYears)
	default:
		return engine.Rule{}, fmt.Errorf("%w: %q", engine.ErrUnknownRuleKind, in.Kind)
	}
}

type CreateHabitInput struct {
	UserID       string
	Title        string
	Description  string
	Color        string
	Icon         string
	ReminderTime string
	Rule         RuleInput
}

type UpdateHabitInput struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Color        string
	Icon         string
	ReminderTime string
	Rule         RuleInput
	Version      int
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	rule, err := input.Rule.ToRule()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRule, err)
	}

	habit, err := domain.NewHabit(input.UserID, input.Title, rule)
	if err != nil {
		return nil, err
	}

	if input.Description != "" || input.Color != "" || input.Icon != "" || input.ReminderTime != "" {
		if err := habit.Update(input.Title, input.Description, input.Color, input.Icon, input.ReminderTime, rule); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Habit, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) error {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if habit.UserID != input.UserID {
		return domain.ErrHabitNotFound
	}

	if input.Version > 0 && habit.Version != input.Version {
		return fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	rule := habit.Rule
	if input.Rule.Kind != "" {
		rule, err = input.Rule.ToRule()
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidRule, err)
		}
	}
	ruleChanged := input.Rule.Kind != "" && !rulesEqual(rule, habit.Rule)

	title := mergeString(input.Title, habit.Title)
	desc := mergeString(input.Description, habit.Description)
	color := mergeString(input.Color, habit.Color)
	icon := mergeString(input.Icon, habit.Icon)

	if err := habit.Update(title, desc, color, icon, input.ReminderTime, rule); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return err
	}

	// A new cadence changes which days are active, so cached streaks are stale.
	if ruleChanged {
		s.worker.Enqueue(habit.ID)
	}

	return nil
}

func rulesEqual(a, b engine.Rule) bool {
	if a.Kind != b.Kind || a.IntervalDays != b.IntervalDays ||
		a.TimesPerWeek != b.TimesPerWeek || a.IntervalMonths != b.IntervalMonths ||
		a.IntervalYears != b.IntervalYears || len(a.Weekdays) != len(b.Weekdays) {
		return false
	}
	for i := range a.Weekdays {
		if a.Weekdays[i] != b.Weekdays[i] {
			return false
		}
	}
	return true
}

func (s *HabitService) Archive(ctx context.Context, id, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	habit.Archive()
	return s.repo.Update(ctx, habit)
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	return s.repo.Delete(ctx, id)
}
