package repl

import (
	"fmt"
	"os"
	"sync"

	"github.com/chzyer/readline"
)

// lineWriter writes through the current readline instance so output from other
// goroutines is drawn above the prompt. The instance is swapped while a
// selector owns the terminal.
type lineWriter struct {
	mu sync.Mutex
	rl *readline.Instance
}

func (w *lineWriter) set(rl *readline.Instance) {
	w.mu.Lock()
	w.rl = rl
	w.mu.Unlock()
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.rl == nil {
		return os.Stdout.Write(p)
	}
	return w.rl.Stdout().Write(p)
}

func (r *REPL) displayError(err error) {
	fmt.Fprintln(r.out, r.formatter.FormatError(err))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayWelcome() {
	done, total := r.deps.Store.Progress()
	fmt.Fprint(r.out, r.formatter.FormatWelcome(r.deps.Store.Now(), done, total))
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r.out, r.formatter.FormatHelp())
}

func (r *REPL) displayInfo(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatInfo(msg))
}

func (r *REPL) displaySuccess(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatSuccess(msg))
}
