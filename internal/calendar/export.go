// Package calendar exports reminders as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/notexe/daily-reminders/internal/reminder"
)

const productID = "-//DailyReminders//Export//EN"

// eventLength is the nominal duration of a reminder event.
const eventLength = 15 * time.Minute

var icalDays = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// RRule returns the recurrence rule for r, or "" for an unknown kind.
func RRule(r reminder.Reminder) string {
	switch r.Recurrence {
	case reminder.RecurrenceDaily:
		return "FREQ=DAILY"
	case reminder.RecurrenceSpecificDays, reminder.RecurrenceWeekly:
		days := make([]string, 0, len(r.Days))
		for _, d := range r.Days {
			if d >= 0 && d < len(icalDays) {
				days = append(days, icalDays[d])
			}
		}
		if len(days) == 0 {
			return ""
		}
		return "FREQ=WEEKLY;BYDAY=" + strings.Join(days, ",")
	case reminder.RecurrenceMonthly:
		return fmt.Sprintf("FREQ=MONTHLY;BYMONTHDAY=%d", r.MonthDay)
	default:
		return ""
	}
}

// Build converts the enabled reminders into a calendar. Reminders with no
// occurrence in the lookahead window are left out.
func Build(reminders []reminder.Reminder, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, r := range reminders {
		if !r.Enabled {
			continue
		}
		rule := RRule(r)
		if rule == "" {
			continue
		}
		start, ok := reminder.NextOccurrence(r, now)
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, r.ID)
		event.Props.SetText(ical.PropSummary, r.Icon()+" "+r.Name)
		event.Props.SetText(ical.PropDescription, reminder.FormatRecurrence(r))
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(eventLength))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

		// SetText would escape the commas in BYDAY.
		rrule := ical.NewProp(ical.PropRecurrenceRule)
		rrule.Value = rule
		event.Props.Set(rrule)

		cal.Children = append(cal.Children, event.Component)
	}
	return cal
}

// Export writes the enabled reminders to w as an .ics document.
func Export(w io.Writer, reminders []reminder.Reminder, now time.Time) (int, error) {
	cal := Build(reminders, now)
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return len(cal.Children), nil
}
