package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) execute(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder, out *bytes.Buffer, errs *[]error) *REPL {
	return New(Options{
		Prompt:    func() string { return "brainscan:/> " },
		Execute:   rec.execute,
		OnError:   func(err error) { *errs = append(*errs, err) },
		Input:     bufio.NewReader(strings.NewReader(input)),
		Output:    out,
		Completer: NewCompleter([]string{"history", "history list", "history stats", "login"}),
	})
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""},
		{"exit without newline", "exit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			out := &bytes.Buffer{}
			var errs []error

			r := newTestREPL(tt.input, rec, out, &errs)
			if err := r.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("executor called %d times, want 0", len(rec.calls))
			}
			if !strings.Contains(out.String(), "brainscan:/> ") {
				t.Errorf("prompt not printed: %q", out.String())
			}
		})
	}
}

func TestREPL_Run_ExecutesLines(t *testing.T) {
	rec := &recorder{}
	out := &bytes.Buffer{}
	var errs []error

	input := "history list --filter tumor\n\n   \nadmin doctors delete 'a b@x.com' --force\nexit\nlogin\n"
	r := newTestREPL(input, rec, out, &errs)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{
		{"history", "list", "--filter", "tumor"},
		{"admin", "doctors", "delete", "a b@x.com", "--force"},
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestREPL_Run_ReportsErrorsAndContinues(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	out := &bytes.Buffer{}
	var errs []error

	r := newTestREPL("whoami\nstatus\n", rec, out, &errs)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 2 {
		t.Errorf("executor called %d times, want 2", len(rec.calls))
	}
	if len(errs) != 2 {
		t.Errorf("got %d errors, want 2", len(errs))
	}
}

func TestREPL_Run_UnbalancedQuote(t *testing.T) {
	rec := &recorder{}
	out := &bytes.Buffer{}
	var errs []error

	r := newTestREPL("login --email 'x\n", rec, out, &errs)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("executor should not run on a parse error")
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
}

func TestREPL_Run_Suggestions(t *testing.T) {
	rec := &recorder{}
	out := &bytes.Buffer{}
	var errs []error

	r := newTestREPL("history ?\nzzz?\n", rec, out, &errs)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"history list", "history stats", "(no completions)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if len(rec.calls) != 0 {
		t.Errorf("suggestions should not execute")
	}
}

func TestREPL_Run_HelpDelegates(t *testing.T) {
	rec := &recorder{}
	out := &bytes.Buffer{}
	var errs []error

	r := newTestREPL("help\n", rec, out, &errs)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0][0] != "help" {
		t.Errorf("calls = %v, want [[help]]", rec.calls)
	}
	if !strings.Contains(out.String(), "Shell built-ins") {
		t.Errorf("built-in help not printed")
	}
}

func TestREPL_Run_HistoryBuiltinAndPersistence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")
	rec := &recorder{}
	out := &bytes.Buffer{}

	r := New(Options{
		Execute: rec.execute,
		Input:   bufio.NewReader(strings.NewReader("whoami\nhistory stats\nhistory\n")),
		Output:  out,
		History: NewHistory(file, 10),
	})
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "    1  whoami") || !strings.Contains(out.String(), "    2  history stats") {
		t.Errorf("history listing missing:\n%s", out.String())
	}
	want := [][]string{{"whoami"}, {"history", "stats"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}

	h := NewHistory(file, 10)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := h.Entries(); !reflect.DeepEqual(got, []string{"whoami", "history stats", "history"}) {
		t.Errorf("persisted = %v", got)
	}
}

func TestREPL_Run_BackgroundTasksStop(t *testing.T) {
	rec := &recorder{}
	out := &bytes.Buffer{}
	var errs []error

	var started, stopped atomic.Bool
	r := newTestREPL("exit\n", rec, out, &errs)
	r.Go(func(ctx context.Context) {
		started.Store(true)
		<-ctx.Done()
		stopped.Store(true)
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !started.Load() || !stopped.Load() {
		t.Errorf("task started=%v stopped=%v, want both", started.Load(), stopped.Load())
	}
}

func TestREPL_Run_ContextCancel(t *testing.T) {
	rec := &recorder{}
	out := &bytes.Buffer{}
	var errs []error

	// A reader that never returns simulates an idle terminal.
	pr := blockingReader{}
	r := New(Options{
		Execute: rec.execute,
		OnError: func(err error) { errs = append(errs, err) },
		Input:   bufio.NewReader(pr),
		Output:  out,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
