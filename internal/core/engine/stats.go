package engine

import (
	"errors"
	"math"
)

var (
	ErrInvalidWindow    = errors.New("statistics window must cover at least one day")
	ErrInvalidWeekCount = errors.New("trend must cover at least one week")
)

// TrendPoint is one period of a trend series: how many completions the
// rule expected in that period, how many happened, and the resulting rate.
type TrendPoint struct {
	PeriodLabel string `json:"period"`
	Expected    int    `json:"expected"`
	Completed   int    `json:"completed"`
	Rate        int    `json:"rate"`
}

// CompletionRate returns the percentage of expected completions that were
// done in the trailing windowDays window ending at ref, rounded to the
// nearest integer. A window with nothing expected yields 0.
func CompletionRate(rule Rule, anchor Day, completions CompletionSet, windowDays int, ref Day) (int, error) {
	if ref < anchor {
		return 0, ErrReferenceBeforeAnchor
	}
	if windowDays < 1 {
		return 0, ErrInvalidWindow
	}

	start := ref.AddDays(-windowDays + 1)

	var expected, completed int
	if rule.WeekGranular() {
		expected, completed = weeklyCountTally(rule, anchor, completions, start, ref)
	} else {
		expected, completed = dayTally(rule, anchor, completions, start, ref)
	}

	return rate(completed, expected), nil
}

// WeeklyTrend returns one TrendPoint per ISO week for the trailing
// numberOfWeeks weeks ending at ref's week, oldest first. Weeks are
// clipped to [anchor, ref]; days outside that range are never expected.
func WeeklyTrend(rule Rule, anchor Day, completions CompletionSet, ref Day, numberOfWeeks int) ([]TrendPoint, error) {
	if ref < anchor {
		return nil, ErrReferenceBeforeAnchor
	}
	if numberOfWeeks < 1 {
		return nil, ErrInvalidWeekCount
	}

	points := make([]TrendPoint, 0, numberOfWeeks)
	refWeek := ref.WeekStart()

	for i := numberOfWeeks - 1; i >= 0; i-- {
		ws := refWeek.AddDays(-7 * i)
		we := ws.AddDays(6)

		var expected, completed int
		if rule.WeekGranular() {
			expected, completed = weeklyCountTally(rule, anchor, completions, ws, min(we, ref))
		} else {
			expected, completed = dayTally(rule, anchor, completions, ws, min(we, ref))
		}

		points = append(points, TrendPoint{
			PeriodLabel: ws.ISOWeekLabel(),
			Expected:    expected,
			Completed:   completed,
			Rate:        rate(completed, expected),
		})
	}

	return points, nil
}

// dayTally counts active days and completed active days in [start, end].
// Anchor gating inside IsActiveDay keeps pre-anchor days out.
func dayTally(rule Rule, anchor Day, completions CompletionSet, start, end Day) (expected, completed int) {
	for d := start; d <= end; d++ {
		if !IsActiveDay(d, rule, anchor) {
			continue
		}
		expected++
		if completions.Has(d) {
			completed++
		}
	}
	return expected, completed
}

// weeklyCountTally measures weekly-count rules over [start, end]. Each ISO
// week overlapping the range expects min(TimesPerWeek, days of the week
// inside [max(start, anchor), end]); completions beyond a week's target do
// not inflate the numerator.
func weeklyCountTally(rule Rule, anchor Day, completions CompletionSet, start, end Day) (expected, completed int) {
	if start < anchor {
		start = anchor
	}
	if end < start {
		return 0, 0
	}

	for ws := start.WeekStart(); ws <= end; ws = ws.AddDays(7) {
		spanStart := max(ws, start)
		spanEnd := min(ws.AddDays(6), end)
		if spanEnd < spanStart {
			continue
		}

		spanDays := DaysBetween(spanStart, spanEnd) + 1
		weekExpected := rule.TimesPerWeek
		if spanDays < weekExpected {
			weekExpected = spanDays
		}

		done := 0
		for d := spanStart; d <= spanEnd; d++ {
			if completions.Has(d) {
				done++
			}
		}
		if done > weekExpected {
			done = weekExpected
		}

		expected += weekExpected
		completed += done
	}

	return expected, completed
}

func rate(completed, expected int) int {
	if expected == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(expected) * 100))
}
