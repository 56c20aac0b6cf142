package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Notices prints user-facing messages, the terminal's version of toasts.
// Consecutive duplicates are collapsed.
type Notices struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
	last  string

	errColor  *color.Color
	okColor   *color.Color
	infoColor *color.Color
	warnColor *color.Color
}

// NewNotices creates a notice printer writing to w.
func NewNotices(w io.Writer) *Notices {
	return &Notices{
		w:         w,
		errColor:  color.New(color.FgRed, color.Bold),
		okColor:   color.New(color.FgGreen),
		infoColor: color.New(color.FgCyan),
		warnColor: color.New(color.FgYellow),
	}
}

// SetQuiet suppresses everything except errors.
func (n *Notices) SetQuiet(quiet bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.quiet = quiet
}

// Error prints a failure notice.
func (n *Notices) Error(message string) {
	n.print(n.errColor, "✗ ", message, true)
}

// Success prints a success notice.
func (n *Notices) Success(message string) {
	n.print(n.okColor, "✓ ", message, false)
}

// Info prints an informational notice.
func (n *Notices) Info(message string) {
	n.print(n.infoColor, "• ", message, false)
}

// Warn prints a warning notice.
func (n *Notices) Warn(message string) {
	n.print(n.warnColor, "! ", message, false)
}

// Reset forgets the last message so it may be printed again.
func (n *Notices) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = ""
}

func (n *Notices) print(c *color.Color, prefix, message string, always bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.quiet && !always {
		return
	}
	line := prefix + message
	if line == n.last {
		return
	}
	n.last = line
	c.Fprintln(n.w, line)
}

// Printf writes an uncolored line.
func (n *Notices) Printf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, format+"\n", args...)
}
