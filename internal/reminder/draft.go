package reminder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors returned by Draft.Validate.
var (
	ErrNameRequired     = errors.New("please enter a name")
	ErrCategoryRequired = errors.New("please select a category")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrDaysRequired     = errors.New("please select at least one day")
	ErrInvalidTime      = errors.New("time must be HH:MM between 00:00 and 23:59")
	ErrInvalidMonthDay  = errors.New("day of month must be between 1 and 31")
	ErrInvalidDay       = errors.New("weekday must be between 0 (Sun) and 6 (Sat)")
	ErrInvalidKind      = errors.New("unknown recurrence")
)

// Draft is the reminder being composed or edited. It is the validation
// boundary in front of the Store: the Store never sees an invalid reminder.
type Draft struct {
	EditingID  string     `json:"editingId,omitempty"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Hour       int        `json:"hour"`
	Minute     int        `json:"minute"`
	Recurrence Recurrence `json:"recurrence"`
	Days       []int      `json:"days"`
	MonthDay   int        `json:"monthDay"`
}

// NewDraft starts a new reminder at 09:00, repeating daily.
func NewDraft() Draft {
	return Draft{Hour: 9, Recurrence: RecurrenceDaily, MonthDay: 1}
}

// DraftFrom opens an existing reminder for editing.
func DraftFrom(r Reminder) Draft {
	d := Draft{
		EditingID:  r.ID,
		Name:       r.Name,
		Category:   r.Category,
		Hour:       r.Hour,
		Minute:     r.Minute,
		Recurrence: r.Recurrence,
		Days:       append([]int(nil), r.Days...),
		MonthDay:   r.MonthDay,
	}
	if d.MonthDay == 0 {
		d.MonthDay = 1
	}
	d.SelectRecurrence(r.Recurrence)
	return d
}

// SelectCategory picks a category. A preset fills in an empty name; the custom
// category clears the name so the user types their own.
func (d *Draft) SelectCategory(id string) {
	d.Category = id
	if id == CustomCategory.ID {
		d.Name = ""
		return
	}
	if c, ok := LookupCategory(id); ok && d.Name == "" {
		d.Name = c.Name
	}
}

// SelectRecurrence switches the recurrence kind. Switching to weekly keeps only
// the first selected day.
func (d *Draft) SelectRecurrence(rec Recurrence) {
	d.Recurrence = rec
	if rec == RecurrenceWeekly && len(d.Days) > 1 {
		d.Days = d.Days[:1]
	}
}

// ToggleDay selects or deselects a weekday. For weekly reminders the new day
// replaces the previous selection.
func (d *Draft) ToggleDay(day int) {
	if d.Recurrence == RecurrenceWeekly {
		d.Days = []int{day}
		return
	}
	for i, v := range d.Days {
		if v == day {
			d.Days = append(d.Days[:i:i], d.Days[i+1:]...)
			return
		}
	}
	d.Days = append(d.Days, day)
}

// SetTime parses "HH:MM".
func (d *Draft) SetTime(s string) error {
	hour, minute, err := ParseClock(s)
	if err != nil {
		return err
	}
	d.Hour, d.Minute = hour, minute
	return nil
}

// SetMonthDay sets the day of month for monthly reminders.
func (d *Draft) SetMonthDay(n int) error {
	if n < 1 || n > 31 {
		return ErrInvalidMonthDay
	}
	d.MonthDay = n
	return nil
}

// Validate checks the draft the way the add/edit form does before saving.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	if d.Category == "" {
		return ErrCategoryRequired
	}
	if _, ok := LookupCategory(d.Category); !ok && d.Category != CustomCategory.ID {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, d.Category)
	}
	if d.Hour < 0 || d.Hour > 23 || d.Minute < 0 || d.Minute > 59 {
		return ErrInvalidTime
	}
	if !d.Recurrence.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, d.Recurrence)
	}
	if d.Recurrence.UsesDays() {
		if len(d.Days) == 0 {
			return ErrDaysRequired
		}
		for _, day := range d.Days {
			if day < 0 || day > 6 {
				return ErrInvalidDay
			}
		}
	}
	if d.Recurrence == RecurrenceMonthly && (d.MonthDay < 1 || d.MonthDay > 31) {
		return ErrInvalidMonthDay
	}
	return nil
}

// Reminder converts the draft into a reminder ready for Store.Add.
// Fields irrelevant to the recurrence kind are dropped.
func (d Draft) Reminder() Reminder {
	r := Reminder{
		Name:       strings.TrimSpace(d.Name),
		Category:   d.Category,
		Hour:       d.Hour,
		Minute:     d.Minute,
		Recurrence: d.Recurrence,
	}
	if d.Recurrence.UsesDays() {
		r.Days = append([]int(nil), d.Days...)
	}
	if d.Recurrence == RecurrenceMonthly {
		r.MonthDay = d.MonthDay
	}
	return r
}

// Patch converts the draft into a full-field update for Store.Update.
func (d Draft) Patch() Patch {
	r := d.Reminder()
	return Patch{
		Name:       &r.Name,
		Category:   &r.Category,
		Hour:       &r.Hour,
		Minute:     &r.Minute,
		Recurrence: &r.Recurrence,
		Days:       &r.Days,
		MonthDay:   &r.MonthDay,
	}
}

// ParseClock parses a 24-hour "HH:MM" time of day.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, ErrInvalidTime
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidTime
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || len(m) != 2 {
		return 0, 0, ErrInvalidTime
	}
	return hour, minute, nil
}

// ParseDays parses weekday names or indices, e.g. "mon,wed,fri" or "1,3,5".
func ParseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		day, err := parseDay(part)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func parseDay(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, ErrInvalidDay
		}
		return n, nil
	}
	for i, name := range DayNames {
		if strings.HasPrefix(strings.ToLower(s), strings.ToLower(name)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}
