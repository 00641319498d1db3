package repl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notexe/daily-reminders/internal/calendar"
	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/notexe/daily-reminders/internal/scheduler"
)

func (r *REPL) showToday() {
	store := r.deps.Store
	now := store.Now()
	due := reminder.DueToday(store.GetAll(), now)

	r.remember(due)
	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, r.formatter.FormatToday(due, store.Completions(), now))
	fmt.Fprintln(r.out)
}

func (r *REPL) showAll() {
	all := r.deps.Store.GetAll()
	reminder.SortByTime(all)

	r.remember(all)
	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, r.formatter.FormatAll(all, r.deps.Store.Now()))
	fmt.Fprintln(r.out)
}

func (r *REPL) remember(list []reminder.Reminder) {
	r.last = r.last[:0]
	for _, rem := range list {
		r.last = append(r.last, rem.ID)
	}
}

// resolve finds the reminder named by a list number from the last view or by id.
func (r *REPL) resolve(arg string) (reminder.Reminder, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return reminder.Reminder{}, fmt.Errorf("which reminder? give its number from /today or /all")
	}

	id := arg
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(r.last) {
			return reminder.Reminder{}, fmt.Errorf("no reminder #%d in the last list", n)
		}
		id = r.last[n-1]
	}

	rem, err := r.deps.Store.Get(id)
	if errors.Is(err, reminder.ErrNotFound) {
		return reminder.Reminder{}, fmt.Errorf("reminder %s not found", arg)
	}
	return rem, err
}

func (r *REPL) handleAdd() error {
	d, err := r.runWizard(reminder.NewDraft())
	if err != nil {
		return err
	}

	added, err := r.deps.Store.Add(d.Reminder())
	if err != nil {
		return err
	}
	r.changed()

	r.displaySuccess(fmt.Sprintf("Added %s %s", added.Icon(), added.Name))
	fmt.Fprintln(r.out, r.formatter.FormatNext(added, r.deps.Store.Now()))
	return nil
}

func (r *REPL) handleEdit(args string) error {
	rem, err := r.resolve(args)
	if err != nil {
		return err
	}

	d, err := r.runWizard(reminder.DraftFrom(rem))
	if err != nil {
		return err
	}

	updated, err := r.deps.Store.Update(d.EditingID, d.Patch())
	if err != nil {
		return err
	}
	r.changed()

	r.displaySuccess(fmt.Sprintf("Updated %s %s", updated.Icon(), updated.Name))
	return nil
}

func (r *REPL) handleDelete(args string) error {
	rem, err := r.resolve(args)
	if err != nil {
		return err
	}

	if err := r.deps.Store.Remove(rem.ID); err != nil {
		return err
	}
	r.changed()

	r.displaySuccess(fmt.Sprintf("Deleted %s %s", rem.Icon(), rem.Name))
	return nil
}

func (r *REPL) handleDone(args string) error {
	rem, err := r.resolve(args)
	if err != nil {
		return err
	}

	done, err := r.deps.Store.ToggleCompletion(rem.ID)
	if err != nil {
		return err
	}
	r.changed()

	if done {
		r.displaySuccess(fmt.Sprintf("%s %s done for today", rem.Icon(), rem.Name))
	} else {
		r.displayInfo(fmt.Sprintf("%s %s marked not done", rem.Icon(), rem.Name))
	}
	doneCount, total := r.deps.Store.Progress()
	fmt.Fprintln(r.out, r.formatter.FormatProgress(doneCount, total))
	return nil
}

func (r *REPL) handleSetEnabled(args string, enabled bool) error {
	rem, err := r.resolve(args)
	if err != nil {
		return err
	}

	if _, err := r.deps.Store.Update(rem.ID, reminder.Patch{Enabled: &enabled}); err != nil {
		return err
	}
	r.changed()

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	r.displaySuccess(fmt.Sprintf("%s %s %s", rem.Icon(), rem.Name, state))
	return nil
}

func (r *REPL) handleNext(args string) error {
	rem, err := r.resolve(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, r.formatter.FormatNext(rem, r.deps.Store.Now()))
	return nil
}

func (r *REPL) handlePresets() error {
	added, err := r.deps.Store.SeedPresets()
	if err != nil {
		return err
	}
	r.changed()

	r.displaySuccess(fmt.Sprintf("Added %d starter reminders", len(added)))
	return nil
}

func (r *REPL) handleReset(args string) error {
	if strings.TrimSpace(args) != "yes" {
		answer := ""
		if r.ask != nil {
			var err error
			answer, err = r.ask("Delete ALL reminders? Type yes to confirm: ", "")
			if err != nil {
				return err
			}
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
			r.displayInfo("Reset cancelled.")
			return nil
		}
	}

	if err := r.deps.Store.ResetAll(); err != nil {
		return err
	}
	r.last = nil
	r.changed()

	r.displaySuccess("All reminders deleted")
	return nil
}

func (r *REPL) handleNotify(ctx context.Context, args string) error {
	perms := r.deps.Permissions
	if perms == nil {
		return fmt.Errorf("notifications are not configured")
	}

	switch strings.ToLower(strings.TrimSpace(args)) {
	case "":
		r.displayInfo(fmt.Sprintf("Notifications: %s", perms.Permission()))
		return nil

	case "on", "allow", "yes":
		if _, err := perms.Request(true); err != nil {
			return err
		}
		n := r.deps.Reschedule()
		r.displaySuccess(fmt.Sprintf("Notifications enabled (%d pending today)", n))
		return r.handleTest(ctx)

	case "off", "deny", "no":
		if _, err := perms.Request(false); err != nil {
			return err
		}
		r.changed()
		r.displayInfo("Notifications disabled")
		return nil

	default:
		return fmt.Errorf("usage: /notify [on|off]")
	}
}

func (r *REPL) handleTest(ctx context.Context) error {
	if r.deps.Notifier == nil {
		return fmt.Errorf("notifications are not configured")
	}
	if r.deps.Permissions != nil && r.deps.Permissions.Permission() != scheduler.PermissionGranted {
		return fmt.Errorf("notifications are not allowed, run /notify on first")
	}
	return r.deps.Notifier.SendTest(ctx)
}

func (r *REPL) handleExport(args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		path = "reminders.ics"
	}
	if filepath.Ext(path) == "" {
		path += ".ics"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	n, err := calendar.Export(f, r.deps.Store.GetAll(), r.deps.Store.Now())
	if err != nil {
		return err
	}

	r.displaySuccess(fmt.Sprintf("Exported %d reminders to %s", n, path))
	return nil
}
