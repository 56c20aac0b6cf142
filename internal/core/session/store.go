package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/storage"
	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
	"github.com/yndnr/brainscan-go/pkg/token"
)

// ExpiredNotice is shown when a persisted credential is found expired.
const ExpiredNotice = "Session expired. Please login again."

// Restore outcomes reported to the observer.
const (
	OutcomeEmpty    = "empty"
	OutcomeRestored = "restored"
	OutcomeExpired  = "expired"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// CredentialStore is the durable slot holding the raw credential.
// Load returns an empty string when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}

// Notifier surfaces user-facing messages.
type Notifier interface {
	Error(message string)
}

// State is the session projection consumed by the route gate.
type State struct {
	Identity      *domain.Claims
	Authenticated bool
	Initialized   bool
}

// Role returns the identity's role, or "" when signed out.
func (s State) Role() domain.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// LoginResult reports the outcome of Login.
type LoginResult struct {
	Success bool        `json:"success"`
	Role    domain.Role `json:"role,omitempty"`
}

// Store is the single session of the running client. It is safe for
// concurrent use.
type Store struct {
	creds    CredentialStore
	now      func() time.Time
	log      logger.Logger
	notifier Notifier
	observe  func(outcome string)

	mu          sync.RWMutex
	credential  string
	identity    *domain.Claims
	initialized bool
	generation  uint64

	restoreOnce sync.Once
	restoreErr  error
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithNotifier sets where user-facing notices go.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithRestoreObserver registers a callback receiving the Restore outcome.
func WithRestoreObserver(fn func(outcome string)) Option {
	return func(s *Store) {
		s.observe = fn
	}
}

// New creates a Store over the given credential slot.
func New(creds CredentialStore, opts ...Option) *Store {
	s := &Store{
		creds: creds,
		now:   time.Now,
		log:   logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted credential and marks the store initialized.
// It runs once; later calls return the first result without side effects.
// A malformed, invalid or expired credential is removed from storage and
// leaves the session signed out.
func (s *Store) Restore(ctx context.Context) error {
	s.restoreOnce.Do(func() {
		outcome, err := s.restore(ctx)

		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()

		s.restoreErr = err
		if s.observe != nil {
			s.observe(outcome)
		}
		s.log.Debug("session restored", "outcome", outcome)
	})
	return s.restoreErr
}

func (s *Store) restore(ctx context.Context) (string, error) {
	raw, err := s.creds.Load(ctx)
	if errors.Is(err, storage.ErrUnseal) {
		s.log.Warn("discarding credential sealed with another key", "error", err)
		return OutcomeInvalid, s.clearSlot(ctx)
	}
	if err != nil {
		s.log.Warn("load credential failed", "error", err)
		return OutcomeError, domain.ErrStorage.WithCause(err)
	}
	if raw == "" {
		return OutcomeEmpty, nil
	}

	claims, err := token.Decode(raw)
	if err != nil {
		reason := "invalid claims"
		if token.IsDecodeError(err) {
			reason = "malformed"
		}
		s.log.Info("discarding unusable credential", "fingerprint", token.Fingerprint(raw), "reason", reason, "error", err)
		return OutcomeInvalid, s.clearSlot(ctx)
	}

	if claims.Expired(s.now()) {
		s.log.Info("discarding expired credential", "fingerprint", token.Fingerprint(raw), "expired_at", claims.ExpiresAt)
		if s.notifier != nil {
			s.notifier.Error(ExpiredNotice)
		}
		return OutcomeExpired, s.clearSlot(ctx)
	}

	s.set(raw, claims)
	return OutcomeRestored, nil
}

// Login decodes and persists a credential issued by the backend.
// Claims missing role or email yield {Success: false} and nothing is stored.
func (s *Store) Login(ctx context.Context, credential string) (LoginResult, error) {
	claims, err := token.Decode(credential)
	if err != nil {
		return LoginResult{Success: false}, err
	}

	if err := s.creds.Save(ctx, credential); err != nil {
		return LoginResult{Success: false}, domain.ErrStorage.WithCause(err)
	}

	s.set(credential, claims)
	s.log.Info("signed in", "email", claims.Email, "role", claims.Role, "fingerprint", token.Fingerprint(credential))
	return LoginResult{Success: true, Role: claims.Role}, nil
}

// Logout clears the persisted credential and the identity. It is idempotent.
func (s *Store) Logout(ctx context.Context) error {
	s.reset()
	if err := s.creds.Clear(ctx); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// Invalidate drops the session after the backend rejected the credential.
func (s *Store) Invalidate(ctx context.Context) error {
	s.log.Info("session invalidated by backend")
	return s.Logout(ctx)
}

// State returns a snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{Initialized: s.initialized}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
		st.Authenticated = s.credential != ""
	}
	return st
}

// Credential returns the raw credential, or "" when signed out.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Identity returns a copy of the decoded claims, or nil when signed out.
func (s *Store) Identity() *domain.Claims {
	return s.State().Identity
}

// IsInitialized reports whether Restore has completed.
func (s *Store) IsInitialized() bool {
	return s.State().Initialized
}

// IsAuthenticated reports whether a credential and identity are present.
func (s *Store) IsAuthenticated() bool {
	return s.State().Authenticated
}

// IsDoctor reports whether the signed-in identity is a doctor.
func (s *Store) IsDoctor() bool {
	st := s.State()
	return st.Authenticated && st.Identity.IsDoctor()
}

// IsAdmin reports whether the signed-in identity is an admin.
func (s *Store) IsAdmin() bool {
	st := s.State()
	return st.Authenticated && st.Identity.IsAdmin()
}

// Generation increments on every identity change. A caller holding an
// older generation is looking at data fetched for a different session.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) set(credential string, claims *domain.Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.identity = claims
	s.generation++
}

func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential == "" && s.identity == nil {
		return
	}
	s.credential = ""
	s.identity = nil
	s.generation++
}

func (s *Store) clearSlot(ctx context.Context) error {
	if err := s.creds.Clear(ctx); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}
