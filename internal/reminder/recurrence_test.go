package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-10-12 is a Monday.
func at(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2026, month, day, hour, minute, 0, 0, time.UTC)
}

func TestIsDueToday(t *testing.T) {
	monday := at(time.October, 12, 10, 0)
	fifteenth := at(time.October, 15, 10, 0)

	tests := []struct {
		name string
		r    Reminder
		day  time.Time
		want bool
	}{
		{"daily", Reminder{Recurrence: RecurrenceDaily}, monday, true},
		{"specific days hit", Reminder{Recurrence: RecurrenceSpecificDays, Days: []int{1, 3, 5}}, monday, true},
		{"specific days miss", Reminder{Recurrence: RecurrenceSpecificDays, Days: []int{2, 4}}, monday, false},
		{"weekly hit", Reminder{Recurrence: RecurrenceWeekly, Days: []int{1}}, monday, true},
		{"weekly miss", Reminder{Recurrence: RecurrenceWeekly, Days: []int{0}}, monday, false},
		{"weekly without days", Reminder{Recurrence: RecurrenceWeekly}, monday, false},
		{"monthly hit", Reminder{Recurrence: RecurrenceMonthly, MonthDay: 15}, fifteenth, true},
		{"monthly miss", Reminder{Recurrence: RecurrenceMonthly, MonthDay: 1}, fifteenth, false},
		{"unknown kind", Reminder{Recurrence: "yearly"}, monday, false},
		{"disabled is still due", Reminder{Recurrence: RecurrenceDaily, Enabled: false}, monday, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDueToday(tt.r, tt.day))
		})
	}
}

func TestIsDueTodayProperties(t *testing.T) {
	start := at(time.January, 1, 12, 0)
	weekdays := Reminder{Recurrence: RecurrenceSpecificDays, Days: []int{0, 2, 6}}
	monthly := Reminder{Recurrence: RecurrenceMonthly, MonthDay: 9}

	for i := 0; i < 400; i++ {
		day := start.AddDate(0, 0, i)
		assert.True(t, IsDueToday(Reminder{Recurrence: RecurrenceDaily}, day))
		assert.Equal(t, containsDay(weekdays.Days, int(day.Weekday())), IsDueToday(weekdays, day))
		assert.Equal(t, day.Day() == 9, IsDueToday(monthly, day))
	}
}

func TestNextOccurrence(t *testing.T) {
	weeklyMonday := Reminder{Recurrence: RecurrenceWeekly, Days: []int{1}, Hour: 7}

	t.Run("later today", func(t *testing.T) {
		now := at(time.October, 12, 6, 0)
		assert.True(t, IsDueToday(weeklyMonday, now))

		next, ok := NextOccurrence(weeklyMonday, now)
		require.True(t, ok)
		assert.Equal(t, at(time.October, 12, 7, 0), next)
	})

	t.Run("already passed today", func(t *testing.T) {
		next, ok := NextOccurrence(weeklyMonday, at(time.October, 12, 8, 0))
		require.True(t, ok)
		assert.Equal(t, at(time.October, 19, 7, 0), next)
	})

	t.Run("exactly now is not next", func(t *testing.T) {
		next, ok := NextOccurrence(weeklyMonday, at(time.October, 12, 7, 0))
		require.True(t, ok)
		assert.Equal(t, at(time.October, 19, 7, 0), next)
	})

	t.Run("monthly rolls into next month", func(t *testing.T) {
		r := Reminder{Recurrence: RecurrenceMonthly, MonthDay: 1, Hour: 10}
		now := at(time.October, 15, 9, 0)
		assert.False(t, IsDueToday(r, now))

		next, ok := NextOccurrence(r, now)
		require.True(t, ok)
		assert.Equal(t, at(time.November, 1, 10, 0), next)
	})

	t.Run("daily after time goes to tomorrow", func(t *testing.T) {
		r := Reminder{Recurrence: RecurrenceDaily, Hour: 22, Minute: 30}
		next, ok := NextOccurrence(r, at(time.December, 31, 23, 0))
		require.True(t, ok)
		assert.Equal(t, time.Date(2027, time.January, 1, 22, 30, 0, 0, time.UTC), next)
	})

	t.Run("day 31 skips short months", func(t *testing.T) {
		r := Reminder{Recurrence: RecurrenceMonthly, MonthDay: 31, Hour: 9}
		// November has no 31st; the last day of the window is December 31.
		next, ok := NextOccurrence(r, at(time.November, 30, 10, 0))
		require.True(t, ok)
		assert.Equal(t, at(time.December, 31, 9, 0), next)
	})

	t.Run("nothing within window", func(t *testing.T) {
		r := Reminder{Recurrence: RecurrenceMonthly, MonthDay: 31, Hour: 9}
		// February 2027 has no 31st and March 31 lies beyond the window.
		_, ok := NextOccurrence(r, time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC))
		assert.False(t, ok)
	})

	t.Run("no days never matches", func(t *testing.T) {
		_, ok := NextOccurrence(Reminder{Recurrence: RecurrenceSpecificDays}, at(time.October, 12, 0, 0))
		assert.False(t, ok)
	})
}

func TestNextOccurrenceIsAlwaysInFuture(t *testing.T) {
	kinds := []Reminder{
		{Recurrence: RecurrenceDaily, Hour: 0, Minute: 0},
		{Recurrence: RecurrenceSpecificDays, Days: []int{1, 4}, Hour: 12, Minute: 15},
		{Recurrence: RecurrenceWeekly, Days: []int{6}, Hour: 23, Minute: 59},
		{Recurrence: RecurrenceMonthly, MonthDay: 28, Hour: 7, Minute: 5},
	}
	start := at(time.January, 1, 0, 0)

	for step := 0; step < 24*60; step += 37 {
		now := start.Add(time.Duration(step) * 17 * time.Minute)
		for _, r := range kinds {
			next, ok := NextOccurrence(r, now)
			if !ok {
				continue
			}
			assert.True(t, next.After(now), "kind %s at %s returned %s", r.Recurrence, now, next)
			assert.True(t, IsDueToday(r, next))
			assert.Equal(t, r.Hour, next.Hour())
			assert.Equal(t, r.Minute, next.Minute())
		}
	}
}

func TestDueToday(t *testing.T) {
	monday := at(time.October, 12, 10, 0)
	reminders := []Reminder{
		{ID: "late", Recurrence: RecurrenceDaily, Hour: 21, Enabled: true},
		{ID: "off", Recurrence: RecurrenceDaily, Hour: 6, Enabled: false},
		{ID: "tue", Recurrence: RecurrenceWeekly, Days: []int{2}, Hour: 5, Enabled: true},
		{ID: "early", Recurrence: RecurrenceSpecificDays, Days: []int{1}, Hour: 7, Enabled: true},
		{ID: "early-tie", Recurrence: RecurrenceDaily, Hour: 7, Enabled: true},
	}

	got := DueToday(reminders, monday)
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"early", "early-tie", "late"}, ids)
}

func TestIsOverdue(t *testing.T) {
	r := Reminder{Hour: 9, Minute: 30}
	assert.True(t, IsOverdue(r, at(time.October, 12, 9, 31)))
	assert.False(t, IsOverdue(r, at(time.October, 12, 9, 30)))
	assert.False(t, IsOverdue(r, at(time.October, 12, 8, 0)))
}

func TestFormatRecurrence(t *testing.T) {
	tests := []struct {
		r    Reminder
		want string
	}{
		{Reminder{Recurrence: RecurrenceDaily}, "Every day"},
		{Reminder{Recurrence: RecurrenceSpecificDays, Days: []int{5, 1, 3}}, "Fri, Mon, Wed"},
		{Reminder{Recurrence: RecurrenceWeekly, Days: []int{0}}, "Every Sun"},
		{Reminder{Recurrence: RecurrenceMonthly, MonthDay: 22}, "Monthly on the 22nd"},
		{Reminder{Recurrence: "hourly"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRecurrence(tt.r))
	}
}

func TestOrdinal(t *testing.T) {
	want := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
		11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd",
		23: "23rd", 24: "24th", 30: "30th", 31: "31st", 111: "111th", 101: "101st",
	}
	for n, s := range want {
		assert.Equal(t, s, Ordinal(n), "n=%d", n)
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "12:00 AM", FormatTime(0, 0))
	assert.Equal(t, "7:05 AM", FormatTime(7, 5))
	assert.Equal(t, "12:30 PM", FormatTime(12, 30))
	assert.Equal(t, "10:30 PM", FormatTime(22, 30))
}
