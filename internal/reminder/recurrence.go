package reminder

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// lookaheadDays bounds the forward scan in NextOccurrence.
const lookaheadDays = 31

// IsDueToday reports whether r recurs on the calendar day of today.
// It does not look at r.Enabled; callers filter on that separately.
func IsDueToday(r Reminder, today time.Time) bool {
	return matchesDay(r, today)
}

func matchesDay(r Reminder, day time.Time) bool {
	switch r.Recurrence {
	case RecurrenceDaily:
		return true
	case RecurrenceSpecificDays, RecurrenceWeekly:
		return containsDay(r.Days, int(day.Weekday()))
	case RecurrenceMonthly:
		return r.MonthDay == day.Day()
	default:
		return false
	}
}

func containsDay(days []int, d int) bool {
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}

// TodayAt returns the reminder's scheduled wall-clock time on now's calendar day.
func TodayAt(r Reminder, now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), r.Hour, r.Minute, 0, 0, now.Location())
}

// NextOccurrence returns the next time strictly after now at which r fires.
// The scan covers today plus the following 31 days; ok is false when nothing matches.
func NextOccurrence(r Reminder, now time.Time) (next time.Time, ok bool) {
	if today := TodayAt(r, now); matchesDay(r, now) && today.After(now) {
		return today, true
	}

	for offset := 1; offset <= lookaheadDays; offset++ {
		candidate := time.Date(now.Year(), now.Month(), now.Day()+offset, r.Hour, r.Minute, 0, 0, now.Location())
		if matchesDay(r, candidate) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// IsOverdue reports whether today's scheduled time has already passed.
func IsOverdue(r Reminder, now time.Time) bool {
	return TodayAt(r, now).Before(now)
}

// SortByTime orders reminders by time of day, keeping insertion order for ties.
func SortByTime(reminders []Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].MinuteOfDay() < reminders[j].MinuteOfDay()
	})
}

// DueToday returns the enabled reminders due on now's day, sorted by time of day.
func DueToday(reminders []Reminder, now time.Time) []Reminder {
	var out []Reminder
	for _, r := range reminders {
		if r.Enabled && IsDueToday(r, now) {
			out = append(out, r)
		}
	}
	SortByTime(out)
	return out
}

// FormatTime renders a time of day as "h:mm AM".
func FormatTime(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, period)
}

// FormatRecurrence describes the recurrence for display.
func FormatRecurrence(r Reminder) string {
	switch r.Recurrence {
	case RecurrenceDaily:
		return "Every day"
	case RecurrenceSpecificDays:
		names := make([]string, 0, len(r.Days))
		for _, d := range r.Days {
			names = append(names, dayName(d))
		}
		return strings.Join(names, ", ")
	case RecurrenceWeekly:
		if len(r.Days) == 0 {
			return "Every week"
		}
		return "Every " + dayName(r.Days[0])
	case RecurrenceMonthly:
		return "Monthly on the " + Ordinal(r.MonthDay)
	default:
		return ""
	}
}

func dayName(d int) string {
	if d < 0 || d >= len(DayNames) {
		return "?"
	}
	return DayNames[d]
}

// Ordinal renders n with its English ordinal suffix (1st, 2nd, 11th, 23rd).
func Ordinal(n int) string {
	suffix := "th"
	switch v := n % 100; {
	case v >= 11 && v <= 13:
	case v%10 == 1:
		suffix = "st"
	case v%10 == 2:
		suffix = "nd"
	case v%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
