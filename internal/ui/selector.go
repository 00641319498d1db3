package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a selection.
var ErrCancelled = errors.New("cancelled")

// SelectorOption represents a single option in the selector
type SelectorOption struct {
	Label       string
	Description string
}

// Selector provides an interactive arrow-key navigable menu. It returns the
// indices of the chosen options.
type Selector struct {
	question    string
	options     []SelectorOption
	selected    int
	multiSelect bool
	selections  map[int]bool
	colored     bool

	in  *os.File
	out io.Writer

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	questionStyle lipgloss.Style
	hintStyle     lipgloss.Style
}

// NewSelector creates a new interactive selector
func NewSelector(question string, options []SelectorOption, multiSelect bool, colored bool) *Selector {
	return &Selector{
		question:    question,
		options:     options,
		multiSelect: multiSelect,
		selections:  make(map[int]bool),
		colored:     colored,
		in:          os.Stdin,
		out:         os.Stdout,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		questionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// Preselect moves the cursor to idx and, in multi-select mode, marks every index in marked.
func (s *Selector) Preselect(idx int, marked ...int) *Selector {
	if idx >= 0 && idx < len(s.options) {
		s.selected = idx
	}
	for _, m := range marked {
		if m >= 0 && m < len(s.options) {
			s.selections[m] = true
		}
	}
	return s
}

// Run displays the selector and returns the selected indices.
func (s *Selector) Run() ([]int, error) {
	if len(s.options) == 0 {
		return nil, fmt.Errorf("no options to select from")
	}

	fd := int(s.in.Fd())
	if !term.IsTerminal(fd) {
		return s.runSimple(s.in)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.runSimple(s.in)
	}
	defer func() {
		term.Restore(fd, oldState)
		fmt.Fprint(s.out, "\033[?25h") // Show cursor
	}()

	fmt.Fprint(s.out, "\033[?25l") // Hide cursor

	totalLines := len(s.options) + 3
	s.printMenu()

	reader := bufio.NewReader(s.in)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}

		done := false
		switch b {
		case 13, 10: // Enter
			done = true
		case 3, 'q': // Ctrl+C
			s.clearMenu(totalLines)
			return nil, ErrCancelled
		case 'j':
			s.moveDown()
		case 'k':
			s.moveUp()
		case ' ':
			if s.multiSelect {
				s.toggleSelection()
			} else {
				done = true
			}
		case 27: // Escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A':
					s.moveUp()
				case 'B':
					s.moveDown()
				}
			}
		default:
			if b >= '1' && b <= '9' {
				idx := int(b - '1')
				if idx < len(s.options) {
					s.selected = idx
					if s.multiSelect {
						s.toggleSelection()
					} else {
						done = true
					}
				}
			}
		}

		s.clearMenu(totalLines)
		if done {
			return s.getSelected(), nil
		}
		s.printMenu()
	}
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	sb.WriteString(s.style(s.questionStyle, s.question))
	sb.WriteString("\r\n")

	hint := "[j/k or arrows] move  [enter] select  [q] cancel"
	if s.multiSelect {
		hint = "[j/k or arrows] move  [space] toggle  [enter] confirm"
	}
	sb.WriteString(s.style(s.hintStyle, hint))
	sb.WriteString("\r\n\r\n")

	for i, opt := range s.options {
		cursor := "  "
		if i == s.selected {
			cursor = "> "
		}

		checkbox := ""
		if s.multiSelect {
			if s.selections[i] {
				checkbox = "[x] "
			} else {
				checkbox = "[ ] "
			}
		}

		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}

		if i == s.selected {
			sb.WriteString(s.style(s.cursorStyle, cursor) + checkbox + s.style(s.selectedStyle, label))
		} else {
			sb.WriteString(cursor + checkbox + s.style(s.optionStyle, label))
		}
		sb.WriteString("\r\n")
	}

	fmt.Fprint(s.out, sb.String())
}

func (s *Selector) style(st lipgloss.Style, text string) string {
	if s.colored {
		return st.Render(text)
	}
	return text
}

func (s *Selector) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Fprint(s.out, "\033[A\033[2K\r")
	}
}

// runSimple is the numbered-prompt fallback used when stdin is not a terminal.
func (s *Selector) runSimple(in io.Reader) ([]int, error) {
	fmt.Fprintln(s.out, s.question)
	for i, opt := range s.options {
		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}
		fmt.Fprintf(s.out, "  [%d] %s\n", i+1, label)
	}
	if s.multiSelect {
		fmt.Fprint(s.out, "Enter numbers separated by commas: ")
	} else {
		fmt.Fprint(s.out, "Enter number: ")
	}

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		return nil, ErrCancelled
	}
	return s.parseChoice(input)
}

// parseChoice turns "2" or "1, 3" into zero-based indices. Empty input keeps
// the current cursor or preselection.
func (s *Selector) parseChoice(input string) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.getSelected(), nil
	}

	var picked []int
	for _, part := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > len(s.options) {
			return nil, fmt.Errorf("invalid choice %q", part)
		}
		picked = append(picked, n-1)
		if !s.multiSelect {
			break
		}
	}
	return picked, nil
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}

func (s *Selector) toggleSelection() {
	s.selections[s.selected] = !s.selections[s.selected]
}

func (s *Selector) getSelected() []int {
	if s.multiSelect {
		var result []int
		for i := range s.options {
			if s.selections[i] {
				result = append(result, i)
			}
		}
		if len(result) == 0 {
			return []int{s.selected}
		}
		return result
	}
	return []int{s.selected}
}
