package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chzyer/readline"
	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/notexe/daily-reminders/internal/scheduler"
	"github.com/notexe/daily-reminders/internal/ui"
	"github.com/rs/zerolog"
)

// Notifier sends notifications on demand.
type Notifier interface {
	SendTest(ctx context.Context) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context) error

func (f NotifierFunc) SendTest(ctx context.Context) error { return f(ctx) }

// Deps are the collaborators the shell drives.
type Deps struct {
	Store       *reminder.Store
	Permissions *scheduler.PermissionStore
	Notifier    Notifier
	// Reschedule recomputes pending notifications after a mutation.
	Reschedule func() int
	Colored    bool
	Logger     zerolog.Logger
}

type REPL struct {
	deps Deps

	// rlMu guards the readline state below; the selector swaps rl while Stop
	// may run from a signal handler.
	rlMu        sync.Mutex
	rl          *readline.Instance
	stopped     bool
	restartErr  error
	newReadline func() (*readline.Instance, error)

	lw        *lineWriter
	out       io.Writer
	formatter *ui.Formatter
	logger    zerolog.Logger

	// last holds the ids of the most recently displayed list; /done 2 refers to last[1].
	last []string

	ask    func(prompt, def string) (string, error)
	choose func(question string, options []ui.SelectorOption, multi bool, preselect []int) ([]int, error)
}

func NewREPL(deps Deps) (*REPL, error) {
	rl, err := setupReadline()
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	lw := &lineWriter{rl: rl}
	r := newREPL(deps, lw)
	r.rl = rl
	r.lw = lw
	r.rl.SetPrompt(r.formatter.FormatPrompt())
	r.ask = r.askLine
	r.choose = r.selectOptions
	return r, nil
}

func newREPL(deps Deps, out io.Writer) *REPL {
	if deps.Reschedule == nil {
		deps.Reschedule = func() int { return 0 }
	}
	if out == nil {
		out = os.Stdout
	}
	return &REPL{
		deps:        deps,
		newReadline: setupReadline,
		out:         out,
		formatter:   ui.NewFormatter(deps.Colored),
		logger:      deps.Logger.With().Str("component", "repl").Logger(),
	}
}

// Out is where the shell writes. Notifications printed here do not corrupt the prompt line.
func (r *REPL) Out() io.Writer {
	return r.out
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.Stop()

	r.displayWelcome()
	r.showToday()

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := r.readInput()
		if err != nil {
			if stopped, restartErr := r.isStopped(); stopped {
				return restartErr
			}
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(input)
		if !isCommand {
			r.displayInfo("Commands start with /. Type /help for the list.")
			continue
		}

		if command == "/quit" || command == "/exit" || command == "/q" {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		}

		if err := r.handleCommand(ctx, command, args); err != nil {
			r.displayError(err)
		}
	}
}

func (r *REPL) Stop() {
	r.rlMu.Lock()
	defer r.rlMu.Unlock()
	r.stopped = true
	if r.rl != nil {
		r.rl.Close()
	}
}

func (r *REPL) isStopped() (bool, error) {
	r.rlMu.Lock()
	defer r.rlMu.Unlock()
	return r.stopped, r.restartErr
}

// instance returns the current readline instance.
func (r *REPL) instance() *readline.Instance {
	r.rlMu.Lock()
	defer r.rlMu.Unlock()
	return r.rl
}

// pauseReadline releases the terminal for the selector.
func (r *REPL) pauseReadline() {
	r.rlMu.Lock()
	defer r.rlMu.Unlock()
	if r.lw != nil {
		r.lw.set(nil)
	}
	if r.rl != nil {
		r.rl.Close()
	}
}

// resumeReadline reopens readline after the selector. It does nothing once
// the shell was stopped.
func (r *REPL) resumeReadline() error {
	r.rlMu.Lock()
	defer r.rlMu.Unlock()
	if r.stopped {
		return nil
	}
	rl, err := r.newReadline()
	if err != nil {
		r.stopped = true
		r.restartErr = fmt.Errorf("failed to restart readline: %w", err)
		return r.restartErr
	}
	rl.SetPrompt(r.formatter.FormatPrompt())
	r.rl = rl
	if r.lw != nil {
		r.lw.set(rl)
	}
	return nil
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/today", "/t":
		r.showToday()
		return nil

	case "/all", "/a", "/list":
		r.showAll()
		return nil

	case "/add":
		return r.handleAdd()

	case "/edit", "/e":
		return r.handleEdit(args)

	case "/delete", "/del", "/rm":
		return r.handleDelete(args)

	case "/done", "/d":
		return r.handleDone(args)

	case "/enable":
		return r.handleSetEnabled(args, true)

	case "/disable":
		return r.handleSetEnabled(args, false)

	case "/next", "/n":
		return r.handleNext(args)

	case "/presets":
		return r.handlePresets()

	case "/reset":
		return r.handleReset(args)

	case "/notify":
		return r.handleNotify(ctx, args)

	case "/test":
		return r.handleTest(ctx)

	case "/export":
		return r.handleExport(args)

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

// changed recomputes pending notifications after a mutation.
func (r *REPL) changed() {
	n := r.deps.Reschedule()
	r.logger.Debug().Int("scheduled", n).Msg("rescheduled after change")
}
