package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")
	ErrCompletionConflict = errors.New("completion already exists for that day")
)

type CompletionRepository interface {
	// Create persists a new completion. A second completion for the same
	// habit and day must fail with ErrCompletionConflict.
	Create(ctx context.Context, completion *Completion) error

	// GetByID retrieves a single active (non-deleted) completion.
	GetByID(ctx context.Context, id string) (*Completion, error)

	// Delete soft-deletes a completion. userID guards ownership.
	Delete(ctx context.Context, id string, userID string) error

	// ListByHabitID retrieves completions for a habit within a date range,
	// newest first. Used by calendar and chart views.
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*Completion, error)

	// ListDaysByHabitID returns only the completion dates for a habit,
	// the shape the streak engine consumes.
	ListDaysByHabitID(ctx context.Context, habitID string) ([]time.Time, error)

	// GetChanges returns all changes after 'since' for offline-first sync.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Completion, error)
}
