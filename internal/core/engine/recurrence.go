package engine

import (
	"errors"
	"sort"
)

var (
	ErrNonPositiveInterval = errors.New("recurrence interval must be at least 1")
	ErrEmptyWeekdays       = errors.New("weekly rule requires at least one weekday")
	ErrWeekdayOutOfRange   = errors.New("weekdays must be between 0 (Sunday) and 6 (Saturday)")
	ErrTimesPerWeekRange   = errors.New("times per week must be between 1 and 7")
	ErrUnknownRuleKind     = errors.New("unknown recurrence rule kind")
)

// RuleKind tags the recurrence variant of a Rule.
type RuleKind string

const (
	KindDaily       RuleKind = "daily"        // every IntervalDays days from the anchor
	KindWeekly      RuleKind = "weekly"       // fixed weekdays, every week
	KindWeeklyCount RuleKind = "weekly_count" // TimesPerWeek completions per ISO week, any days
	KindMonthly     RuleKind = "monthly"      // anchor's day-of-month, every IntervalMonths months
	KindAnnual      RuleKind = "annual"       // anchor's month+day, every IntervalYears years
)

// Rule describes a habit's expected cadence. Exactly one variant applies,
// selected by Kind; fields for other variants are ignored. Build rules via
// the constructors so invalid configurations are rejected before any
// evaluation sees them.
type Rule struct {
	Kind           RuleKind `json:"kind"`
	IntervalDays   int      `json:"interval_days,omitempty"`
	Weekdays       []int    `json:"weekdays,omitempty"`
	TimesPerWeek   int      `json:"times_per_week,omitempty"`
	IntervalMonths int      `json:"interval_months,omitempty"`
	IntervalYears  int      `json:"interval_years,omitempty"`
}

// Daily returns a rule active every intervalDays days starting at the anchor.
func Daily(intervalDays int) (Rule, error) {
	if intervalDays < 1 {
		return Rule{}, ErrNonPositiveInterval
	}
	return Rule{Kind: KindDaily, IntervalDays: intervalDays}, nil
}

// Weekly returns a rule active on the given weekdays (0=Sunday..6=Saturday)
// every week. The set is deduplicated and sorted.
func Weekly(weekdays ...int) (Rule, error) {
	if len(weekdays) == 0 {
		return Rule{}, ErrEmptyWeekdays
	}
	seen := make(map[int]bool)
	var days []int
	for _, wd := range weekdays {
		if wd < 0 || wd > 6 {
			return Rule{}, ErrWeekdayOutOfRange
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	sort.Ints(days)
	return Rule{Kind: KindWeekly, Weekdays: days}, nil
}

// WeeklyCount returns a rule satisfied by count completions per ISO week,
// on any days.
func WeeklyCount(count int) (Rule, error) {
	if count < 1 || count > 7 {
		return Rule{}, ErrTimesPerWeekRange
	}
	return Rule{Kind: KindWeeklyCount, TimesPerWeek: count}, nil
}

// Monthly returns a rule active on the anchor's day-of-month every
// intervalMonths months. Months lacking that day have no active day.
func Monthly(intervalMonths int) (Rule, error) {
	if intervalMonths < 1 {
		return Rule{}, ErrNonPositiveInterval
	}
	return Rule{Kind: KindMonthly, IntervalMonths: intervalMonths}, nil
}

// Annual returns a rule active on the anchor's month and day every
// intervalYears years. A Feb 29 anchor never matches in non-leap years.
func Annual(intervalYears int) (Rule, error) {
	if intervalYears < 1 {
		return Rule{}, ErrNonPositiveInterval
	}
	return Rule{Kind: KindAnnual, IntervalYears: intervalYears}, nil
}

// Validate checks a rule reconstructed from storage or transport. Rules
// produced by the constructors are always valid.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindDaily:
		if r.IntervalDays < 1 {
			return ErrNonPositiveInterval
		}
	case KindWeekly:
		if len(r.Weekdays) == 0 {
			return ErrEmptyWeekdays
		}
		for _, wd := range r.Weekdays {
			if wd < 0 || wd > 6 {
				return ErrWeekdayOutOfRange
			}
		}
	case KindWeeklyCount:
		if r.TimesPerWeek < 1 || r.TimesPerWeek > 7 {
			return ErrTimesPerWeekRange
		}
	case KindMonthly:
		if r.IntervalMonths < 1 {
			return ErrNonPositiveInterval
		}
	case KindAnnual:
		if r.IntervalYears < 1 {
			return ErrNonPositiveInterval
		}
	default:
		return ErrUnknownRuleKind
	}
	return nil
}

// WeekGranular reports whether streaks for this rule are measured in weeks
// rather than days.
func (r Rule) WeekGranular() bool {
	return r.Kind == KindWeeklyCount
}

// IsActiveDay reports whether the habit is expected (or, for weekly-count
// rules, eligible to count) on the given day. Days before the anchor are
// never active, for every variant.
func IsActiveDay(day Day, rule Rule, anchor Day) bool {
	if day < anchor {
		return false
	}

	switch rule.Kind {
	case KindDaily:
		return DaysBetween(anchor, day)%rule.IntervalDays == 0

	case KindWeekly:
		wd := day.Weekday()
		for _, want := range rule.Weekdays {
			if wd == want {
				return true
			}
		}
		return false

	case KindWeeklyCount:
		// Every day is eligible; the week-level target is judged by the
		// streak engine, not per day.
		return true

	case KindMonthly:
		ay, am, ad := anchor.Date()
		cy, cm, cd := day.Date()
		if cd != ad {
			return false
		}
		months := (cy-ay)*12 + int(cm) - int(am)
		return months%rule.IntervalMonths == 0

	case KindAnnual:
		ay, am, ad := anchor.Date()
		cy, cm, cd := day.Date()
		if cm != am || cd != ad {
			return false
		}
		return (cy-ay)%rule.IntervalYears == 0
	}

	return false
}

// NextActiveDay returns the first active day strictly after the given day,
// searching at most limit days ahead. The second result is false when no
// active day exists within the bound; that is a normal outcome, not an
// error.
func NextActiveDay(after Day, rule Rule, anchor Day, limit int) (Day, bool) {
	for i := 1; i <= limit; i++ {
		d := after.AddDays(i)
		if IsActiveDay(d, rule, anchor) {
			return d, true
		}
	}
	return 0, false
}

// ActiveDaysInRange returns the active days in [start, end], inclusive and
// in ascending order. The slice is freshly allocated on every call.
func ActiveDaysInRange(start, end Day, rule Rule, anchor Day) []Day {
	var days []Day
	for d := start; d <= end; d++ {
		if IsActiveDay(d, rule, anchor) {
			days = append(days, d)
		}
	}
	return days
}
