package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/daily-reminders/internal/reminder"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")). // Soft blue border
			Padding(0, 1)
)

const (
	markDone    = "✓"
	markPending = "○"
)

type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, msg)
}

func (f *Formatter) FormatDim(msg string) string {
	return f.render(DimStyle, msg)
}

// FormatWelcome renders the date header shown on start.
func (f *Formatter) FormatWelcome(now time.Time, done, total int) string {
	title := "Daily Reminders"
	date := now.Format("Monday, January 2")
	progress := f.FormatProgress(done, total)
	help := "Type /help for commands"

	if !f.colored {
		return strings.Join([]string{"", title, date, progress, help, ""}, "\n")
	}

	body := strings.Join([]string{
		HeaderStyle.Render(title),
		AccentStyle.Render(date),
		"",
		progress,
		DimStyle.Render(help),
	}, "\n")
	return "\n" + BorderStyle.Render(body) + "\n"
}

// FormatProgress renders "X / Y done".
func (f *Formatter) FormatProgress(done, total int) string {
	text := fmt.Sprintf("%d / %d done", done, total)
	if total > 0 && done == total {
		return f.render(SuccessStyle, text+" 🎉")
	}
	return f.render(InfoStyle, text)
}

// FormatToday renders today's due reminders, numbered from 1, with completion
// marks and an overdue marker for pending reminders whose time has passed.
func (f *Formatter) FormatToday(due []reminder.Reminder, completed map[string]bool, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(f.render(HeaderStyle, "Today"))
	sb.WriteString("  ")
	sb.WriteString(f.FormatDim(now.Format("Mon Jan 2")))
	sb.WriteString("\n\n")

	if len(due) == 0 {
		sb.WriteString(f.FormatDim("  No reminders for today. Add one with /add."))
		sb.WriteString("\n")
		return sb.String()
	}

	done := 0
	for i, r := range due {
		mark := f.render(DimStyle, markPending)
		name := r.Name
		suffix := ""
		switch {
		case completed[r.ID]:
			done++
			mark = f.render(SuccessStyle, markDone)
			name = f.render(DimStyle, name)
		case reminder.IsOverdue(r, now):
			suffix = "  " + f.render(WarningStyle, "overdue")
		}

		fmt.Fprintf(&sb, "  %2d. %s %s %s  %s%s\n",
			i+1, mark, r.Icon(), name,
			f.render(AccentStyle, reminder.FormatTime(r.Hour, r.Minute)), suffix)
	}

	sb.WriteString("\n  ")
	sb.WriteString(f.FormatProgress(done, len(due)))
	sb.WriteString("\n")
	return sb.String()
}

// FormatAll renders every reminder, numbered from 1, with schedule and state.
func (f *Formatter) FormatAll(all []reminder.Reminder, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(f.render(HeaderStyle, "All reminders"))
	sb.WriteString("\n\n")

	if len(all) == 0 {
		sb.WriteString(f.FormatDim("  No reminders yet. Use /add or /presets."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, r := range all {
		state := ""
		name := r.Name
		if !r.Enabled {
			state = "  " + f.render(DimStyle, "(disabled)")
			name = f.render(DimStyle, name)
		}
		fmt.Fprintf(&sb, "  %2d. %s %s  %s  %s%s\n",
			i+1, r.Icon(), name,
			f.render(AccentStyle, reminder.FormatTime(r.Hour, r.Minute)),
			f.FormatDim(reminder.FormatRecurrence(r)), state)
	}
	return sb.String()
}

// FormatNext renders when r fires next.
func (f *Formatter) FormatNext(r reminder.Reminder, now time.Time) string {
	next, ok := reminder.NextOccurrence(r, now)
	if !ok {
		return f.FormatInfo(fmt.Sprintf("%s %s has no occurrence in the next 31 days.", r.Icon(), r.Name))
	}
	return fmt.Sprintf("%s %s  %s %s",
		r.Icon(), r.Name,
		f.FormatDim("next:"),
		f.render(AccentStyle, next.Format("Mon Jan 2, ")+reminder.FormatTime(next.Hour(), next.Minute())))
}

// FormatDraft summarizes a draft before it is saved.
func (f *Formatter) FormatDraft(d reminder.Draft) string {
	r := d.Reminder()
	title := "New reminder"
	if d.EditingID != "" {
		title = "Edit reminder"
	}
	content := fmt.Sprintf("%s %s\n%s  %s", r.Icon(), r.Name,
		reminder.FormatTime(r.Hour, r.Minute), reminder.FormatRecurrence(r))
	return f.FormatBox(title, content)
}

// FormatPrompt returns a styled input prompt
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("reminders") + arrowStyle.Render(" > ")
	}
	return "reminders > "
}

// FormatBox wraps content in a styled box
func (f *Formatter) FormatBox(title, content string) string {
	if f.colored {
		return HeaderStyle.Render(title) + "\n" + BorderStyle.Render(content)
	}
	return title + "\n" + content
}
