package ui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Commands

## Reminders
| Command | Description |
|---|---|
| ` + "`/today`" + ` | Reminders due today with progress |
| ` + "`/all`" + ` | Every reminder with its schedule |
| ` + "`/add`" + ` | Create a reminder |
| ` + "`/edit <n>`" + ` | Edit a reminder |
| ` + "`/delete <n>`" + ` | Delete a reminder |
| ` + "`/done <n>`" + ` | Mark done for today, or undo |
| ` + "`/enable <n>`" + `, ` + "`/disable <n>`" + ` | Turn a reminder on or off |
| ` + "`/next <n>`" + ` | Show when it fires next |

## Data
| Command | Description |
|---|---|
| ` + "`/presets`" + ` | Add the starter reminders |
| ` + "`/export <file.ics>`" + ` | Export to an iCalendar file |
| ` + "`/reset`" + ` | Delete all reminders |

## Notifications
| Command | Description |
|---|---|
| ` + "`/notify on\\|off`" + ` | Allow or block notifications |
| ` + "`/test`" + ` | Send a test notification |

## General
| Command | Description |
|---|---|
| ` + "`/help`" + ` | Show this help |
| ` + "`/quit`" + ` | Exit |

` + "`<n>`" + ` is the number shown by the last ` + "`/today`" + ` or ` + "`/all`" + ` list, or a reminder id.
`

// FormatHelp renders the command reference.
func (f *Formatter) FormatHelp() string {
	if !f.colored {
		return helpMarkdown
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return helpMarkdown
	}

	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
