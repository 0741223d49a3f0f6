package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCompletion = errors.New("invalid completion data")
)

// Completion records that a habit was done on a calendar day. The
// persistence layer enforces at most one active completion per habit per
// day; the engine relies on that invariant.
type Completion struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	CompletedOn time.Time `json:"completed_on" db:"completed_on"`
	Notes       string    `json:"notes" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// NewCompletion truncates the date to midnight UTC so two timestamps on
// the same calendar day collide on the uniqueness constraint.
func NewCompletion(habitID, userID string, date time.Time) *Completion {
	now := time.Now().UTC()

	d := date.UTC()
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	return &Completion{
		ID:          uuid.New().String(),
		HabitID:     habitID,
		UserID:      userID,
		CompletedOn: midnight,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if c.CompletedOn.IsZero() {
		return errors.New("completed_on is required")
	}
	return nil
}
