package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/notexe/daily-reminders/internal/ui"
)

var recurrenceOptions = []struct {
	kind  reminder.Recurrence
	label string
	desc  string
}{
	{reminder.RecurrenceDaily, "Daily", "every day"},
	{reminder.RecurrenceSpecificDays, "Specific days", "pick weekdays"},
	{reminder.RecurrenceWeekly, "Weekly", "one day a week"},
	{reminder.RecurrenceMonthly, "Monthly", "one day a month"},
}

// runWizard walks the user through the add/edit form and returns a valid draft.
func (r *REPL) runWizard(d reminder.Draft) (reminder.Draft, error) {
	if err := r.pickCategory(&d); err != nil {
		return d, err
	}

	name, err := r.ask("Name: ", d.Name)
	if err != nil {
		return d, err
	}
	d.Name = name

	clock := fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
	for {
		input, err := r.ask("Time (HH:MM, 24h): ", clock)
		if err != nil {
			return d, err
		}
		if err := d.SetTime(input); err != nil {
			r.displayError(fmt.Errorf("%w: use HH:MM, e.g. 07:30", err))
			continue
		}
		break
	}

	if err := r.pickRecurrence(&d); err != nil {
		return d, err
	}

	switch d.Recurrence {
	case reminder.RecurrenceSpecificDays, reminder.RecurrenceWeekly:
		if err := r.pickDays(&d); err != nil {
			return d, err
		}
	case reminder.RecurrenceMonthly:
		if err := r.pickMonthDay(&d); err != nil {
			return d, err
		}
	}

	if err := d.Validate(); err != nil {
		return d, err
	}

	fmt.Fprintln(r.out, r.formatter.FormatDraft(d))
	return d, nil
}

func (r *REPL) pickCategory(d *reminder.Draft) error {
	cats := append(append([]reminder.Category{}, reminder.PresetCategories...), reminder.CustomCategory)
	options := make([]ui.SelectorOption, len(cats))
	current := 0
	for i, c := range cats {
		options[i] = ui.SelectorOption{Label: c.Icon + " " + c.Name}
		if c.ID == d.Category {
			current = i
		}
	}

	picked, err := r.choose("Category", options, false, []int{current})
	if err != nil {
		return err
	}
	if len(picked) == 0 {
		return fmt.Errorf("no category selected")
	}

	id := cats[picked[0]].ID
	if id == d.Category {
		return nil
	}
	if d.EditingID != "" && id != reminder.CustomCategory.ID {
		// Editing keeps the user's name unless they switch to custom.
		d.Category = id
		return nil
	}
	d.SelectCategory(id)
	return nil
}

func (r *REPL) pickRecurrence(d *reminder.Draft) error {
	options := make([]ui.SelectorOption, len(recurrenceOptions))
	current := 0
	for i, o := range recurrenceOptions {
		options[i] = ui.SelectorOption{Label: o.label, Description: o.desc}
		if o.kind == d.Recurrence {
			current = i
		}
	}

	picked, err := r.choose("Repeat", options, false, []int{current})
	if err != nil {
		return err
	}
	if len(picked) == 0 {
		return fmt.Errorf("no recurrence selected")
	}
	d.SelectRecurrence(recurrenceOptions[picked[0]].kind)
	return nil
}

func (r *REPL) pickDays(d *reminder.Draft) error {
	options := make([]ui.SelectorOption, len(reminder.DayNames))
	for i, name := range reminder.DayNames {
		options[i] = ui.SelectorOption{Label: name}
	}

	multi := d.Recurrence == reminder.RecurrenceSpecificDays
	question := "Which day?"
	if multi {
		question = "Which days?"
	}

	picked, err := r.choose(question, options, multi, d.Days)
	if err != nil {
		return err
	}

	d.Days = nil
	for _, day := range picked {
		d.ToggleDay(day)
	}
	return nil
}

func (r *REPL) pickMonthDay(d *reminder.Draft) error {
	def := strconv.Itoa(d.MonthDay)
	for {
		input, err := r.ask("Day of month (1-31): ", def)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err == nil {
			err = d.SetMonthDay(n)
		}
		if err != nil {
			r.displayError(reminder.ErrInvalidMonthDay)
			continue
		}
		return nil
	}
}

// selectOptions runs the interactive selector with readline paused.
func (r *REPL) selectOptions(question string, options []ui.SelectorOption, multi bool, preselect []int) (picked []int, err error) {
	r.pauseReadline()
	defer func() {
		if rerr := r.resumeReadline(); rerr != nil {
			r.logger.Error().Err(rerr).Msg("readline restart failed")
			picked, err = nil, rerr
		}
	}()

	cursor := 0
	if len(preselect) > 0 {
		cursor = preselect[0]
	}
	sel := ui.NewSelector(question, options, multi, r.deps.Colored).Preselect(cursor)
	if multi {
		sel.Preselect(cursor, preselect...)
	}

	picked, err = sel.Run()
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(picked))
	for i, p := range picked {
		labels[i] = options[p].Label
	}
	fmt.Fprintln(r.out, r.formatter.FormatSuccess("→ "+strings.Join(labels, ", ")))
	return picked, nil
}
