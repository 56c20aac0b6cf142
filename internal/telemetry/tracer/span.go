package tracer

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
)

// HeaderRequestID carries the span ID to the backend.
const HeaderRequestID = "X-Request-ID"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new lexically sortable request ID.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Span is one traced operation.
type Span struct {
	ID    string
	Name  string
	Start time.Time

	ctx   context.Context
	mu    sync.Mutex
	attrs []any
	err   error
	ended bool
}

// StartSpan begins a span and returns a context carrying its ID. An ID
// already present in ctx is reused.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	id := logger.RequestIDFromContext(ctx)
	if id == "" {
		id = NewID()
		ctx = logger.WithRequestID(ctx, id)
	}
	s := &Span{ID: id, Name: name, Start: time.Now(), ctx: ctx}
	return ctx, s
}

// SetAttribute attaches a key/value logged when the span ends.
func (s *Span) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, key, value)
}

// RecordError marks the span failed.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// End logs the span once and returns its duration.
func (s *Span) End() time.Duration {
	elapsed := time.Since(s.Start)

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return elapsed
	}
	s.ended = true
	args := append([]any{"span", s.Name, "elapsed", elapsed}, s.attrs...)
	err := s.err
	s.mu.Unlock()

	l := logger.L(s.ctx)
	if err != nil {
		l.Debug("span failed", append(args, "error", err)...)
		return elapsed
	}
	l.Debug("span finished", args...)
	return elapsed
}

// Err returns the recorded error, if any.
func (s *Span) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
