package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/shlex"

	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
)

// Executor runs one parsed command line.
type Executor func(ctx context.Context, args []string) error

// Options configures a REPL.
type Options struct {
	// Prompt returns the prompt shown before each line.
	Prompt func() string
	// Execute runs every line that is not a built-in.
	Execute Executor
	// OnError reports a failed line; the loop continues.
	OnError func(err error)

	Input     *bufio.Reader
	Output    io.Writer
	History   *History
	Completer *Completer
	Logger    logger.Logger
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	opts Options

	wg     sync.WaitGroup
	tasks  []func(ctx context.Context)
	cancel context.CancelFunc
}

// New creates a REPL. Prompt, Execute and Input are required.
func New(opts Options) *REPL {
	if opts.Prompt == nil {
		opts.Prompt = func() string { return "brainscan> " }
	}
	if opts.OnError == nil {
		opts.OnError = func(err error) { fmt.Fprintf(opts.Output, "error: %v\n", err) }
	}
	if opts.History == nil {
		opts.History = NewHistory("", DefaultHistorySize)
	}
	if opts.Completer == nil {
		opts.Completer = NewCompleter(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	return &REPL{opts: opts}
}

// Go registers a background task started with the loop and cancelled when
// it ends.
func (r *REPL) Go(task func(ctx context.Context)) {
	r.tasks = append(r.tasks, task)
}

// Run reads and executes lines until exit, EOF or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.opts.History.Load(); err != nil {
		r.opts.Logger.Warn("load shell history failed", "error", err)
	}
	defer func() {
		if err := r.opts.History.Save(); err != nil {
			r.opts.Logger.Warn("save shell history failed", "error", err)
		}
	}()

	ctx, r.cancel = context.WithCancel(ctx)
	defer r.stop()
	for _, task := range r.tasks {
		r.wg.Add(1)
		go func(task func(context.Context)) {
			defer r.wg.Done()
			task(ctx)
		}(task)
	}

	requests := make(chan struct{})
	results := make(chan readResult, 1)
	defer close(requests)
	go r.read(requests, results)

	for {
		fmt.Fprint(r.opts.Output, r.opts.Prompt())
		requests <- struct{}{}

		select {
		case <-ctx.Done():
			fmt.Fprintln(r.opts.Output)
			return nil
		case res := <-results:
			if res.line != "" {
				if done := r.handle(ctx, res.line); done {
					return nil
				}
			}
			if res.err != nil {
				fmt.Fprintln(r.opts.Output)
				if errors.Is(res.err, io.EOF) {
					return nil
				}
				return res.err
			}
		}
	}
}

func (r *REPL) stop() {
	r.cancel()
	r.wg.Wait()
}

type readResult struct {
	line string
	err  error
}

// read reads one line per request. Commands share the input for their own
// prompts, so nothing is read while a line executes.
func (r *REPL) read(requests <-chan struct{}, results chan<- readResult) {
	for range requests {
		line, err := r.opts.Input.ReadString('\n')
		results <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// handle runs one line and reports whether the shell should exit.
func (r *REPL) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	r.opts.History.Add(line)

	if strings.HasSuffix(line, "?") {
		r.suggest(strings.TrimSpace(strings.TrimSuffix(line, "?")))
		return false
	}

	args, err := shlex.Split(line)
	if err != nil {
		r.opts.OnError(fmt.Errorf("parse line: %w", err))
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "exit", "quit":
		return true
	case "history":
		if len(args) == 1 {
			r.printHistory()
			return false
		}
	case "help":
		if err := r.opts.Execute(ctx, args); err != nil {
			r.opts.OnError(err)
		}
		fmt.Fprintln(r.opts.Output, "\nShell built-ins: exit, quit, history (no arguments), help. End a line with ? to list completions.")
		return false
	}

	if err := r.opts.Execute(ctx, args); err != nil {
		r.opts.OnError(err)
	}
	return false
}

func (r *REPL) suggest(prefix string) {
	matches := r.opts.Completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintln(r.opts.Output, "(no completions)")
		return
	}
	for _, m := range matches {
		fmt.Fprintln(r.opts.Output, "  "+m)
	}
}

func (r *REPL) printHistory() {
	entries := r.opts.History.Entries()
	for i, e := range entries {
		fmt.Fprintf(r.opts.Output, "%5d  %s\n", i+1, e)
	}
}
