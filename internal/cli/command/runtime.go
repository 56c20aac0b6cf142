package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/backend"
	"github.com/yndnr/brainscan-go/internal/cli/config"
	"github.com/yndnr/brainscan-go/internal/cli/connection"
	"github.com/yndnr/brainscan-go/internal/cli/output"
	"github.com/yndnr/brainscan-go/internal/core/gate"
	"github.com/yndnr/brainscan-go/internal/core/session"
	"github.com/yndnr/brainscan-go/internal/infra/shutdown"
	"github.com/yndnr/brainscan-go/internal/storage"
	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
	"github.com/yndnr/brainscan-go/internal/telemetry/metric"
)

const runtimeKey = "runtime"

// Runtime is the state shared by every command of one process: exactly one
// session store, one API client and one credential store.
type Runtime struct {
	Config     *config.Config
	ConfigPath string
	Log        logger.Logger
	Metrics    *metric.Registry
	Session    *session.Store
	HTTP       *connection.HTTPClient
	API        *backend.Client
	Notices    *output.Notices
	Prompt     *Prompter

	Stdout io.Writer
	Stderr io.Writer

	kv    storage.KV
	hooks *shutdown.Hooks
	now   func() time.Time

	mu         sync.Mutex
	view       string
	onView     []func(path string)
	timers     []*time.Timer
	formatOver output.Format
	depth      int
	inShell    bool
}

// RuntimeOptions overrides process-level wiring, mainly for tests.
type RuntimeOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	KV     storage.KV
	Now    func() time.Time
}

// NewRuntime builds the runtime from configuration and restores the
// session. Restore completes before NewRuntime returns, so every gate
// decision afterwards sees an initialized session.
func NewRuntime(ctx context.Context, cfg *config.Config, opts RuntimeOptions) (*Runtime, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: opts.Stderr})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)

	rt := &Runtime{
		Config:  cfg,
		Log:     log,
		Metrics: metric.NewRegistry(),
		Notices: output.NewNotices(opts.Stderr),
		Prompt:  NewPrompter(opts.Stdin, opts.Stderr),
		Stdout:  opts.Stdout,
		Stderr:  opts.Stderr,
		hooks:   shutdown.NewHooks(5 * time.Second),
		now:     time.Now,
		view:    gate.RouteLogin,
	}
	if opts.Now != nil {
		rt.now = opts.Now
	}

	kv := opts.KV
	if kv == nil {
		kv, err = storage.Open(ctx, storage.Config{
			Driver: cfg.Storage.Driver,
			Dir:    cfg.Storage.Dir,
			Seal:   cfg.Storage.Seal,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("open credential storage: %w", err)
		}
	}
	rt.kv = kv
	rt.hooks.OnShutdown(func(context.Context) error { return kv.Close() })

	rt.Session = session.New(storage.NewSlot(kv),
		session.WithClock(rt.now),
		session.WithLogger(log),
		session.WithNotifier(rt.Notices),
		session.WithRestoreObserver(rt.Metrics.ObserveRestore),
	)

	rt.HTTP, err = connection.NewHTTPClient(cfg.API.URL,
		connection.WithTimeout(cfg.API.Timeout),
		connection.WithRateLimit(cfg.API.RateLimit),
		connection.WithCAFile(cfg.API.CAFile),
		connection.WithCredentials(rt.Session),
		connection.WithNotifier(rt.Notices),
		connection.WithRedirector(rt, cfg.API.RedirectDelay),
		connection.WithMetrics(rt.Metrics),
		connection.WithLogger(log),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.API = backend.New(rt.HTTP)

	if err := rt.Session.Restore(ctx); err != nil {
		log.Warn("session restore failed", "error", err)
	}
	if st := rt.Session.State(); st.Authenticated {
		rt.view = gate.DashboardFor(st.Role())
	}
	return rt, nil
}

// OnShutdown registers cleanup run by Close.
func (rt *Runtime) OnShutdown(fn func(context.Context) error) {
	rt.hooks.OnShutdown(fn)
}

// Close stops pending redirects and releases storage.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	for _, t := range rt.timers {
		t.Stop()
	}
	rt.timers = nil
	rt.mu.Unlock()
	return rt.hooks.Run()
}

// View returns the path of the view the user is on.
func (rt *Runtime) View() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.view
}

// SetView moves the user to path and notifies view listeners.
func (rt *Runtime) SetView(path string) {
	rt.mu.Lock()
	changed := rt.view != path
	rt.view = path
	listeners := append([]func(string){}, rt.onView...)
	rt.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(path)
		}
	}
}

// OnViewChange registers fn to run when the current view changes.
func (rt *Runtime) OnViewChange(fn func(path string)) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.onView = append(rt.onView, fn)
}

// RedirectAfter implements connection.Redirector.
func (rt *Runtime) RedirectAfter(path string, delay time.Duration) {
	t := time.AfterFunc(delay, func() { rt.SetView(path) })
	rt.mu.Lock()
	rt.timers = append(rt.timers, t)
	rt.mu.Unlock()
}

// SetOutputFormat changes the default result format for later commands.
func (rt *Runtime) SetOutputFormat(f output.Format) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.formatOver = f
}

// Formatter returns the result formatter for this invocation. An explicit
// --output flag wins over the configured format.
func (rt *Runtime) Formatter(c *cli.Context) output.Formatter {
	format := output.Format(rt.Config.Output.Format)
	rt.mu.Lock()
	if rt.formatOver != "" {
		format = rt.formatOver
	}
	rt.mu.Unlock()
	if c.IsSet("output") {
		if f, err := output.ParseFormat(c.String("output")); err == nil {
			format = f
		}
	}
	wide := rt.Config.Output.Wide || c.Bool("wide")
	return output.NewFormatter(format, wide)
}

// Print renders data with the invocation's formatter.
func (rt *Runtime) Print(c *cli.Context, data any) error {
	return rt.Formatter(c).Format(rt.Stdout, data)
}

// RequestContext bounds one backend round-trip.
func (rt *Runtime) RequestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, rt.Config.API.Timeout)
}

func (rt *Runtime) enter() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.depth++
}

// leave reports whether the outermost invocation finished.
func (rt *Runtime) leave() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.depth--
	return rt.depth <= 0
}

func (rt *Runtime) beginShell() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.inShell {
		return false
	}
	rt.inShell = true
	return true
}

func (rt *Runtime) endShell() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.inShell = false
}

// GetRuntime retrieves the runtime built in Before.
func GetRuntime(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, fmt.Errorf("runtime not initialized")
}
