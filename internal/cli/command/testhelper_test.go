package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/config"
	"github.com/yndnr/brainscan-go/internal/storage"
)

func init() {
	color.NoColor = true
}

// recordedRequest is what the mock server saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// mockServer creates a test HTTP server with custom handlers.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []recordedRequest
}

// newMockServer creates a new mock server. Patterns are "METHOD /path" or
// "/path"; a pattern ending in "/" matches by prefix and the longest
// matching pattern wins.
func newMockServer(t *testing.T) *mockServer {
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		m.mu.Lock()
		m.requests = append(m.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		handler := m.match(r)
		m.mu.Unlock()

		if handler == nil {
			http.NotFound(w, r)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) match(r *http.Request) http.HandlerFunc {
	var best string
	var handler http.HandlerFunc
	for pattern, h := range m.handlers {
		method, path := "", pattern
		if i := strings.IndexByte(pattern, ' '); i > 0 {
			method, path = pattern[:i], pattern[i+1:]
		}
		if method != "" && method != r.Method {
			continue
		}
		ok := path == r.URL.Path || (strings.HasSuffix(path, "/") && strings.HasPrefix(r.URL.Path, path))
		if ok && len(pattern) > len(best) {
			best, handler = pattern, h
		}
	}
	return handler
}

// handle registers a handler for a path pattern.
func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[pattern] = handler
}

// seen returns the recorded requests.
func (m *mockServer) seen() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error response in the backend's envelope.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// mint signs a credential for the given identity.
func mint(t *testing.T, role, email, name string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"role": role, "email": email, "exp": exp.Unix()}
	if name != "" {
		claims["name"] = name
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign credential: %v", err)
	}
	return s
}

// keepOpen survives Runtime.Close so several runs share one store.
type keepOpen struct {
	storage.KV
}

func (keepOpen) Close() error { return nil }

// harness runs the CLI against a mock backend with an in-memory credential
// store shared across runs.
type harness struct {
	t      *testing.T
	srv    *mockServer
	kv     *storage.MemoryKV
	home   string
	now    time.Time
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"BRAINSCAN_API_URL", "BRAINSCAN_ADMIN_TOKEN", config.FallbackURLEnv} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())

	return &harness{
		t:    t,
		srv:  newMockServer(t),
		kv:   storage.NewMemory(),
		home: home,
		now:  time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

// signIn stores a credential as if a previous run had logged in.
func (h *harness) signIn(role, email string) string {
	h.t.Helper()
	cred := mint(h.t, role, email, "Dr. Test", h.now.Add(time.Hour))
	if err := h.kv.Set(context.Background(), storage.CredentialKey, []byte(cred)); err != nil {
		h.t.Fatalf("store credential: %v", err)
	}
	return cred
}

// run executes one invocation with stdin and returns its error.
func (h *harness) run(stdin string, args ...string) error {
	h.t.Helper()
	return h.runApp(h.newApp(stdin), args...)
}

// newApp builds an app wired to the harness; tests that need the live
// runtime keep a reference to it.
func (h *harness) newApp(stdin string) *cli.App {
	return NewApp(RuntimeOptions{
		Stdin:  strings.NewReader(stdin),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		KV:     keepOpen{h.kv},
		Now:    func() time.Time { return h.now },
	})
}

func (h *harness) runApp(app *cli.App, args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	full := append([]string{"brainscan-cli", "--api-url", h.srv.URL}, args...)
	return app.RunContext(context.Background(), full)
}

// stored returns the persisted credential, or "".
func (h *harness) stored() string {
	v, err := h.kv.Get(context.Background(), storage.CredentialKey)
	if err != nil {
		return ""
	}
	return string(v)
}
