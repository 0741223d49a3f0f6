package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayConversions(t *testing.T) {
	t.Run("Epoch is day zero", func(t *testing.T) {
		assert.Equal(t, Day(0), FromDate(1970, time.January, 1))
		assert.Equal(t, "1970-01-01", Day(0).String())
	})

	t.Run("Round trip through string", func(t *testing.T) {
		d := MustParseDay("2024-02-29")
		assert.Equal(t, "2024-02-29", d.String())

		y, m, dd := d.Date()
		assert.Equal(t, 2024, y)
		assert.Equal(t, time.February, m)
		assert.Equal(t, 29, dd)
	})

	t.Run("DayOf strips time of day and timezone", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		late := time.Date(2024, time.March, 10, 23, 45, 0, 0, loc)
		assert.Equal(t, MustParseDay("2024-03-10"), DayOf(late))
	})

	t.Run("ParseDay rejects malformed input", func(t *testing.T) {
		_, err := ParseDay("10/03/2024")
		require.Error(t, err)

		_, err = ParseDay("2024-13-01")
		require.Error(t, err)
	})
}

func TestDayArithmetic(t *testing.T) {
	jan31 := MustParseDay("2024-01-31")

	t.Run("AddDays crosses month boundaries exactly", func(t *testing.T) {
		assert.Equal(t, MustParseDay("2024-02-01"), jan31.AddDays(1))
		assert.Equal(t, MustParseDay("2024-01-01"), jan31.AddDays(-30))
	})

	t.Run("AddDays crosses the leap day", func(t *testing.T) {
		assert.Equal(t, MustParseDay("2024-03-01"), jan31.AddDays(30))
	})

	t.Run("DaysBetween is signed", func(t *testing.T) {
		a := MustParseDay("2024-01-01")
		b := MustParseDay("2024-01-10")
		assert.Equal(t, 9, DaysBetween(a, b))
		assert.Equal(t, -9, DaysBetween(b, a))
		assert.Equal(t, 0, DaysBetween(a, a))
	})
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1970-01-01", 4}, // Thursday
		{"2024-01-01", 1}, // Monday
		{"2024-01-07", 0}, // Sunday
		{"2024-01-06", 6}, // Saturday
		{"1969-12-31", 3}, // Wednesday, before the epoch
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseDay(tt.date).Weekday())
		})
	}
}

func TestWeekStart(t *testing.T) {
	monday := MustParseDay("2024-01-01")

	for i := 0; i < 7; i++ {
		d := monday.AddDays(i)
		assert.Equal(t, monday, d.WeekStart(), "every day of the week maps to the same Monday")
	}

	assert.Equal(t, MustParseDay("2024-01-08"), monday.AddDays(7).WeekStart())
}

func TestISOWeekLabel(t *testing.T) {
	assert.Equal(t, "2024-W01", MustParseDay("2024-01-01").ISOWeekLabel())
	// Jan 1 2023 is a Sunday, ISO week 52 of 2022.
	assert.Equal(t, "2022-W52", MustParseDay("2023-01-01").ISOWeekLabel())
}

func TestCompletionSet(t *testing.T) {
	t.Run("From strings", func(t *testing.T) {
		set, err := CompletionSetFromStrings([]string{"2024-01-08", "2024-01-09"})
		require.NoError(t, err)

		assert.True(t, set.Has(MustParseDay("2024-01-08")))
		assert.False(t, set.Has(MustParseDay("2024-01-10")))

		set.Add(MustParseDay("2024-01-10"))
		assert.True(t, set.Has(MustParseDay("2024-01-10")))
	})

	t.Run("From strings propagates parse errors", func(t *testing.T) {
		_, err := CompletionSetFromStrings([]string{"2024-01-08", "not-a-date"})
		require.Error(t, err)
	})

	t.Run("From times dedups same-day timestamps", func(t *testing.T) {
		morning := time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)
		evening := time.Date(2024, time.January, 8, 21, 30, 0, 0, time.UTC)

		set := CompletionSetFromTimes([]time.Time{morning, evening})
		assert.Len(t, set, 1)
	})
}
