// Package engine implements recurrence evaluation and streak/completion
// statistics for habits. It is pure: no I/O, no clocks, no shared state.
// All date math runs on integer day counts so interval arithmetic stays
// exact across timezones and DST transitions.
package engine

import (
	"fmt"
	"time"
)

// Day is a civil calendar day, counted as whole days since 1970-01-01.
// It carries no time-of-day and no timezone.
type Day int

const secondsPerDay = 86400

// unixEpochWeekday: 1970-01-01 was a Thursday (0=Sunday..6=Saturday).
const unixEpochWeekday = 4

// DayOf truncates t to its civil date, using the calendar date of t in
// its own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return FromDate(y, m, d)
}

// FromDate builds a Day from a calendar date.
func FromDate(year int, month time.Month, day int) Day {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Day(t.Unix() / secondsPerDay)
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// MustParseDay is ParseDay for trusted literals. It panics on malformed
// input and is meant for tests and constants.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns the midnight UTC instant of the day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// Date returns the calendar components of the day.
func (d Day) Date() (year int, month time.Month, day int) {
	return d.Time().Date()
}

// String formats the day as "YYYY-MM-DD".
func (d Day) String() string {
	return d.Time().Format("2006-01-02")
}

// AddDays returns the day n days later (earlier for negative n).
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// DaysBetween returns b - a in whole days, negative when b precedes a.
func DaysBetween(a, b Day) int {
	return int(b - a)
}

// Weekday returns the day of week, 0=Sunday through 6=Saturday.
func (d Day) Weekday() int {
	wd := (int(d)%7 + unixEpochWeekday) % 7
	if wd < 0 {
		wd += 7
	}
	return wd
}

// WeekStart returns the Monday on or before d. Weeks follow the ISO-8601
// convention throughout the engine.
func (d Day) WeekStart() Day {
	offset := (d.Weekday() + 6) % 7 // days since Monday
	return d.AddDays(-offset)
}

// ISOWeekLabel renders the ISO week containing d, e.g. "2024-W03".
func (d Day) ISOWeekLabel() string {
	y, w := d.Time().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// CompletionSet is the set of days on which a habit was marked done.
// Membership is per civil day; the persistence layer guarantees at most
// one completion per habit per day.
type CompletionSet map[Day]struct{}

// NewCompletionSet builds a set from explicit days.
func NewCompletionSet(days ...Day) CompletionSet {
	set := make(CompletionSet, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

// CompletionSetFromTimes builds a set from timestamps, truncating each to
// its civil date.
func CompletionSetFromTimes(times []time.Time) CompletionSet {
	set := make(CompletionSet, len(times))
	for _, t := range times {
		set[DayOf(t)] = struct{}{}
	}
	return set
}

// CompletionSetFromStrings builds a set from "YYYY-MM-DD" strings.
func CompletionSetFromStrings(dates []string) (CompletionSet, error) {
	set := make(CompletionSet, len(dates))
	for _, s := range dates {
		d, err := ParseDay(s)
		if err != nil {
			return nil, err
		}
		set[d] = struct{}{}
	}
	return set, nil
}

// Add marks a day as completed.
func (s CompletionSet) Add(d Day) {
	s[d] = struct{}{}
}

// Has reports whether the day is completed.
func (s CompletionSet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}
