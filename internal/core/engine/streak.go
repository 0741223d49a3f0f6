package engine

import "errors"

// ErrReferenceBeforeAnchor is returned when a streak or statistics
// computation is asked about a reference date earlier than the habit's
// anchor. That is a caller bug; the engine rejects it rather than clamp.
var ErrReferenceBeforeAnchor = errors.New("reference date precedes the habit anchor")

// StreakUnit names the unit a streak is measured in.
type StreakUnit string

const (
	UnitDays  StreakUnit = "days"
	UnitWeeks StreakUnit = "weeks"
)

// StreakResult holds the current and longest streak for a habit. Longest
// is never smaller than Current. Unit is weeks for weekly-count rules and
// days for everything else.
type StreakResult struct {
	Current int        `json:"current"`
	Longest int        `json:"longest"`
	Unit    StreakUnit `json:"unit"`
}

// ComputeStreak walks backward from ref and counts consecutive completed
// active days (or succeeding weeks, for weekly-count rules). Inactive days
// neither break nor extend a streak. The current streak is the unbroken
// run ending at ref; the longest streak is the maximum run anywhere
// between anchor and ref.
func ComputeStreak(rule Rule, anchor Day, completions CompletionSet, ref Day) (StreakResult, error) {
	if ref < anchor {
		return StreakResult{}, ErrReferenceBeforeAnchor
	}

	if rule.WeekGranular() {
		return weekStreak(rule, anchor, completions, ref), nil
	}

	current := 0
	counting := true // still extending the streak anchored at ref
	run := 0
	longest := 0

	for d := ref; d >= anchor; d-- {
		if !IsActiveDay(d, rule, anchor) {
			continue
		}
		if completions.Has(d) {
			if counting {
				current++
			} else {
				run++
				if run > longest {
					longest = run
				}
			}
		} else {
			if counting {
				counting = false
			} else {
				run = 0
			}
		}
	}

	if current > longest {
		longest = current
	}

	return StreakResult{Current: current, Longest: longest, Unit: UnitDays}, nil
}

// weekStreak applies the backward walk per ISO week (Monday start). A week
// succeeds when it contains at least rule.TimesPerWeek distinct completed
// days on or after the anchor.
func weekStreak(rule Rule, anchor Day, completions CompletionSet, ref Day) StreakResult {
	anchorWeek := anchor.WeekStart()

	current := 0
	counting := true
	run := 0
	longest := 0

	for ws := ref.WeekStart(); ws >= anchorWeek; ws = ws.AddDays(-7) {
		if weekSucceeded(rule, anchor, completions, ws) {
			if counting {
				current++
			} else {
				run++
				if run > longest {
					longest = run
				}
			}
		} else {
			if counting {
				counting = false
			} else {
				run = 0
			}
		}
	}

	if current > longest {
		longest = current
	}

	return StreakResult{Current: current, Longest: longest, Unit: UnitWeeks}
}

func weekSucceeded(rule Rule, anchor Day, completions CompletionSet, weekStart Day) bool {
	return completedInWeek(anchor, completions, weekStart) >= rule.TimesPerWeek
}

func completedInWeek(anchor Day, completions CompletionSet, weekStart Day) int {
	n := 0
	for i := 0; i < 7; i++ {
		d := weekStart.AddDays(i)
		if d >= anchor && completions.Has(d) {
			n++
		}
	}
	return n
}
