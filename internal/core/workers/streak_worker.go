package workers

import (
	"context"
	"log"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, result engine.StreakResult) error
}

type CompletionRepository interface {
	ListDaysByHabitID(ctx context.Context, habitID string) ([]time.Time, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes streak caches in the background. Completion
// mutations and rule changes enqueue the habit; the worker replays the
// full completion history through the engine and persists the result.
type StreakWorker struct {
	habitRepo      HabitRepository
	completionRepo CompletionRepository
	jobs           chan StreakJob
}

func NewStreakWorker(hRepo HabitRepository, cRepo CompletionRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo:      hRepo,
		completionRepo: cRepo,
		jobs:           make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	days, err := w.completionRepo.ListDaysByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching completions for %s: %v", job.HabitID, err)
		return
	}

	result, err := RecomputeStreak(habit, days, time.Now().UTC())
	if err != nil {
		log.Printf("Worker Error computing streak for %s: %v", job.HabitID, err)
		return
	}

	if habit.CurrentStreak != result.Current || habit.LongestStreak != result.Longest ||
		habit.StreakUnit != string(result.Unit) {
		if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, result); err != nil {
			log.Printf("Worker Failed to update streak for %s: %v", job.HabitID, err)
		} else {
			log.Printf("Streak updated for %s: Current=%d, Longest=%d (%s)",
				habit.Title, result.Current, result.Longest, result.Unit)
		}
	}
}

// RecomputeStreak runs the engine for a habit as of the given instant.
// The reference never precedes the anchor: a habit created today has its
// anchor on today's date.
func RecomputeStreak(habit *domain.Habit, completionDays []time.Time, now time.Time) (engine.StreakResult, error) {
	ref := engine.DayOf(now)
	anchor := habit.Anchor()
	if ref < anchor {
		ref = anchor
	}

	set := engine.CompletionSetFromTimes(completionDays)
	return engine.ComputeStreak(habit.Rule, anchor, set, ref)
}
