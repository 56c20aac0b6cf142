package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestHooks_ReverseOrder(t *testing.T) {
	h := NewHooks(time.Second)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		h.OnShutdown(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	if err := h.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("order = %v, want [3 2 1]", order)
	}
}

func TestHooks_RunOnce(t *testing.T) {
	h := NewHooks(time.Second)
	calls := 0
	h.OnShutdown(func(context.Context) error {
		calls++
		return nil
	})

	h.Run()
	h.Run()
	if calls != 1 {
		t.Errorf("hook ran %d times", calls)
	}
}

func TestHooks_JoinsErrors(t *testing.T) {
	h := NewHooks(time.Second)
	errA := errors.New("close storage")
	errB := errors.New("write metrics")
	ran := false

	h.OnShutdown(func(context.Context) error { return errA })
	h.OnShutdown(func(context.Context) error { ran = true; return nil })
	h.OnShutdown(func(context.Context) error { return errB })

	err := h.Run()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Run() = %v, want both errors", err)
	}
	if !ran {
		t.Error("a failing hook stopped later hooks")
	}
}

func TestHooks_DeadlinePropagates(t *testing.T) {
	h := NewHooks(50 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := h.Run(); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
}

func TestHooks_ConcurrentRegister(t *testing.T) {
	h := NewHooks(time.Second)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()
	if n := len(h.hooks); n != 50 {
		t.Errorf("registered %d hooks, want 50", n)
	}
}

func TestWithSignals(t *testing.T) {
	ctx, stop := WithSignals(context.Background())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Skipf("cannot signal self: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}

func TestWithSignals_Stop(t *testing.T) {
	ctx, stop := WithSignals(context.Background())
	stop()
	select {
	case <-ctx.Done():
	default:
		t.Error("stop() should cancel the context")
	}
}
