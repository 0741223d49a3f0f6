package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidReminder    = errors.New("invalid reminder format (must be HH:MM 24h)")
	ErrInvalidRule        = errors.New("invalid recurrence rule")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	DefaultIcon = "default_icon"
	MaxTitleLen = 100
	MaxDescLen  = 500
)

// Habit is the aggregate root. Its recurrence rule is an engine.Rule,
// validated on every construction and update so the engine never sees an
// invalid configuration. StartDate is the anchor for all recurrence math.
// CurrentStreak/LongestStreak cache the engine's output and are refreshed
// by the streak worker; the completion history stays the source of truth.
type Habit struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Color        string      `json:"color"`
	Icon         string      `json:"icon"`
	SortOrder    int         `json:"sort_order"`
	ReminderTime *string     `json:"reminder_time,omitempty"`
	Rule         engine.Rule `json:"rule"`

	StartDate time.Time `json:"start_date"`

	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	StreakUnit    string `json:"streak_unit"`

	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func validateHabitFields(title, desc, color, reminder string, rule engine.Rule) error {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}

	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrHabitDescTooLong
	}

	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}

	if reminder != "" && !reminderRegex.MatchString(reminder) {
		return ErrInvalidReminder
	}

	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}

	return nil
}

func streakUnitFor(rule engine.Rule) string {
	if rule.WeekGranular() {
		return string(engine.UnitWeeks)
	}
	return string(engine.UnitDays)
}

func NewHabit(userID, title string, rule engine.Rule) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if err := validateHabitFields(title, "", "", "", rule); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      strings.TrimSpace(title),
		Icon:       DefaultIcon,
		Rule:       rule,
		StreakUnit: streakUnitFor(rule),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
		StartDate:  now,
	}, nil
}

func (h *Habit) Update(title, description, color, icon, reminder string, rule engine.Rule) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	cleanDesc := strings.TrimSpace(description)

	if err := validateHabitFields(title, cleanDesc, color, reminder, rule); err != nil {
		return err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	var remPtr *string
	if reminder != "" {
		remPtr = &reminder
	}

	h.Title = strings.TrimSpace(title)
	h.Description = cleanDesc
	h.Color = color
	h.Icon = icon
	h.ReminderTime = remPtr
	h.Rule = rule
	h.StreakUnit = streakUnitFor(rule)

	h.UpdatedAt = time.Now().UTC()

	return nil
}

// Anchor returns the habit's creation day, the reference point for all
// recurrence evaluation. Time-of-day is dropped.
func (h *Habit) Anchor() engine.Day {
	return engine.DayOf(h.StartDate.UTC())
}

func (h *Habit) UpdateStreak(result engine.StreakResult) {
	h.CurrentStreak = result.Current
	h.LongestStreak = result.Longest
	h.StreakUnit = string(result.Unit)
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) ChangePosition(newOrder int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}
