package scheduler

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Notification is a single message handed to a delivery channel. Tag identifies
// the reminder; a later notification with the same tag replaces the earlier one.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// Notifier is a delivery channel.
type Notifier interface {
	Name() string
	Available() bool
	Deliver(ctx context.Context, n Notification) error
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFA500")).
			Padding(0, 2)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500"))
)

// Console prints notifications to a terminal writer with a bell.
type Console struct {
	out  io.Writer
	bell bool
}

// NewConsole creates a console channel writing to out.
func NewConsole(out io.Writer, bell bool) *Console {
	return &Console{out: out, bell: bell}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Available() bool { return c.out != nil }

func (c *Console) Deliver(_ context.Context, n Notification) error {
	var b strings.Builder
	b.WriteString("\n")
	if c.bell {
		b.WriteString("\a")
	}
	b.WriteString(boxStyle.Render(titleStyle.Render(n.Title) + "\n" + n.Body))
	b.WriteString("\n")

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}
