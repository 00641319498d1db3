package reminder

import "time"

// Recurrence identifies how a reminder repeats.
type Recurrence string

// Recurrence kinds.
const (
	RecurrenceDaily        Recurrence = "daily"
	RecurrenceSpecificDays Recurrence = "specific_days"
	RecurrenceWeekly       Recurrence = "weekly"
	RecurrenceMonthly      Recurrence = "monthly"
)

// Valid reports whether r is one of the known recurrence kinds.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceSpecificDays, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// UsesDays reports whether the recurrence is driven by a weekday set.
func (r Recurrence) UsesDays() bool {
	return r == RecurrenceSpecificDays || r == RecurrenceWeekly
}

// DayNames holds abbreviated weekday names indexed by time.Weekday (0 = Sunday).
var DayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Reminder is a persisted recurring reminder.
type Reminder struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category,omitempty"`
	Hour       int        `json:"hour"`
	Minute     int        `json:"minute"`
	Recurrence Recurrence `json:"recurrence"`
	Days       []int      `json:"days,omitempty"`
	MonthDay   int        `json:"monthDay,omitempty"`
	Enabled    bool       `json:"enabled"`
	CreatedAt  int64      `json:"createdAt"` // Unix milliseconds
}

// Icon returns the icon of the reminder's preset category, or DefaultIcon.
func (r Reminder) Icon() string {
	if c, ok := LookupCategory(r.Category); ok {
		return c.Icon
	}
	return DefaultIcon
}

// Created returns the creation time in the local zone.
func (r Reminder) Created() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// MinuteOfDay returns the scheduled time as minutes since midnight.
func (r Reminder) MinuteOfDay() int {
	return r.Hour*60 + r.Minute
}

// Patch holds optional fields for a partial update. Nil fields are left untouched.
type Patch struct {
	Name       *string
	Category   *string
	Hour       *int
	Minute     *int
	Recurrence *Recurrence
	Days       *[]int
	MonthDay   *int
	Enabled    *bool
}

func (p Patch) apply(r *Reminder) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Hour != nil {
		r.Hour = *p.Hour
	}
	if p.Minute != nil {
		r.Minute = *p.Minute
	}
	if p.Recurrence != nil {
		r.Recurrence = *p.Recurrence
	}
	if p.Days != nil {
		r.Days = append([]int(nil), (*p.Days)...)
	}
	if p.MonthDay != nil {
		r.MonthDay = *p.MonthDay
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
}

// normalize collapses a weekly day set to a single element.
func normalize(r *Reminder) {
	if r.Recurrence == RecurrenceWeekly && len(r.Days) > 1 {
		r.Days = r.Days[:1]
	}
}
