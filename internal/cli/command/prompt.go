package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted")

// Prompter reads interactive input. Passwords are read without echo when
// the input is a terminal.
type Prompter struct {
	in     io.Reader
	reader *bufio.Reader
	w      io.Writer
}

// NewPrompter creates a prompter reading in and writing prompts to w.
func NewPrompter(in io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: in, reader: bufio.NewReader(in), w: w}
}

// Reader returns the buffered input shared with the interactive shell.
func (p *Prompter) Reader() *bufio.Reader {
	return p.reader
}

// Line prints label and reads one trimmed line. EOF after partial input
// returns the partial line.
func (p *Prompter) Line(label string) (string, error) {
	if _, err := fmt.Fprintf(p.w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password reads a secret. On a terminal the input is not echoed.
func (p *Prompter) Password(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Line(label)
	}
	if _, err := fmt.Fprintf(p.w, "%s: ", label); err != nil {
		return "", err
	}
	pw, err := readPassword(int(f.Fd()))
	fmt.Fprintln(p.w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Confirm asks a yes/no question. Anything other than y or yes declines.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Line(question + " [y/N]")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// valueOrPrompt returns the flag value, prompting when it is empty.
func valueOrPrompt(p *Prompter, value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if secret {
		return p.Password(label)
	}
	return p.Line(label)
}

// confirm returns ErrAborted unless --force is set or the user agrees.
func confirm(p *Prompter, force bool, question string) error {
	if force {
		return nil
	}
	ok, err := p.Confirm(question)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
