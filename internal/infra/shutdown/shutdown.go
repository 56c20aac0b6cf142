// Package shutdown ties process lifetime to termination signals.
//
// WithSignals gives the root context every blocking call derives from;
// Hooks collects cleanup that must run however the process ends.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM. Call stop
// to release the signal handler.
func WithSignals(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Hooks runs cleanup functions once, in reverse registration order.
type Hooks struct {
	timeout time.Duration
	mu      sync.Mutex
	hooks   []func(context.Context) error
	once    sync.Once
	err     error
}

// NewHooks creates a hook set whose Run is bounded by timeout.
func NewHooks(timeout time.Duration) *Hooks {
	return &Hooks{timeout: timeout}
}

// OnShutdown registers a hook.
func (h *Hooks) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Run executes every hook, newest first, and joins their errors. Later
// calls return the first result.
func (h *Hooks) Run() error {
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := append([]func(context.Context) error(nil), h.hooks...)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		h.err = errors.Join(errs...)
	})
	return h.err
}
