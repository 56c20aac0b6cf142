package command

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/brainscan-go/internal/cli/connection"
	"github.com/yndnr/brainscan-go/internal/core/gate"
)

func TestRuntime_RedirectAfter(t *testing.T) {
	rt := &Runtime{view: gate.RouteDoctorDashboard}

	changed := make(chan string, 1)
	rt.OnViewChange(func(path string) { changed <- path })
	rt.RedirectAfter(gate.RouteLogin, 10*time.Millisecond)

	select {
	case path := <-changed:
		if path != gate.RouteLogin {
			t.Errorf("redirected to %q", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("redirect did not fire")
	}
	if rt.View() != gate.RouteLogin {
		t.Errorf("View() = %q", rt.View())
	}
}

func TestRuntime_SetViewNotifiesOnlyOnChange(t *testing.T) {
	rt := &Runtime{view: gate.RouteLogin}
	var calls int
	rt.OnViewChange(func(string) { calls++ })

	rt.SetView(gate.RouteLogin)
	rt.SetView(gate.RouteAdminDashboard)
	rt.SetView(gate.RouteAdminDashboard)

	if calls != 1 {
		t.Errorf("listener called %d times, want 1", calls)
	}
}

func TestRuntime_Depth(t *testing.T) {
	rt := &Runtime{}
	rt.enter()
	rt.enter()
	if rt.leave() {
		t.Error("inner leave reported outermost")
	}
	if !rt.leave() {
		t.Error("outer leave not reported outermost")
	}
}

func TestGetRuntime_NotInitialized(t *testing.T) {
	app := &cli.App{Metadata: map[string]any{}}
	if _, err := GetRuntime(cli.NewContext(app, nil, nil)); err == nil {
		t.Error("expected error without a runtime")
	}
}

func TestCommandPaths(t *testing.T) {
	paths := CommandPaths(App().Commands)
	for _, want := range []string{
		"login", "history list", "history clear", "admin doctors delete",
		"admin predictions export", "config show", "shell",
	} {
		if !slices.Contains(paths, want) {
			t.Errorf("CommandPaths missing %q", want)
		}
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api error already shown", &connection.APIError{Status: 500, Message: connection.MsgServerError}, ""},
		{"plain error", errors.New("boom"), "error: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			HandleError(&buf, tt.err)
			if buf.String() != tt.want {
				t.Errorf("HandleError wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestMetricsFile(t *testing.T) {
	h := newHarness(t)
	h.signIn("doctor", "d@x.com")
	h.srv.handle("GET /history", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleLogs())
	})

	path := filepath.Join(t.TempDir(), "metrics.prom")
	if err := h.run("", "--metrics-file", path, "history", "list"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, want := range []string{
		`brainscan_api_requests_total{method="GET",path="/history",status="200"} 1`,
		`brainscan_session_restores_total{outcome="restored"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)
	wantPath := filepath.Join(h.home, ".brainscan", "cli.yaml")

	if err := h.run("", "config", "path"); err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != wantPath {
		t.Errorf("config path = %q, want %q", got, wantPath)
	}

	if err := h.run("", "config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "api.url") || !strings.Contains(h.stdout.String(), h.srv.URL) {
		t.Errorf("config show = %q", h.stdout.String())
	}

	if err := h.run("", "config", "validate"); err != nil {
		t.Fatalf("config validate error = %v", err)
	}
	if !strings.Contains(h.stderr.String(), "using defaults") {
		t.Errorf("stderr = %q", h.stderr.String())
	}

	if err := h.run("", "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if info, err := os.Stat(wantPath); err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("config file = %v, %v", info, err)
	}
	if err := h.run("", "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite")
	}
	if err := h.run("", "config", "validate"); err != nil {
		t.Fatalf("config validate error = %v", err)
	}
	if !strings.Contains(h.stderr.String(), "Configuration file is valid") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestConfigFile_InvalidFormatRejected(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := h.run("", "--config", path, "whoami"); err == nil {
		t.Error("invalid configuration should fail")
	}
}

func TestConfigFile_MissingExplicitPath(t *testing.T) {
	h := newHarness(t)
	if err := h.run("", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "whoami"); err == nil {
		t.Error("missing explicit config file should fail")
	}
}

func TestShell(t *testing.T) {
	h := newHarness(t)
	h.signIn("doctor", "d@x.com")
	h.srv.handle("GET /status", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	h.srv.handle("GET /history", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleLogs())
	})

	input := strings.Join([]string{
		"whoami",
		"history stats",
		"-o json history stats",
		"admin overview",
		"shell",
		"logout",
		"exit",
	}, "\n") + "\n"
	if err := h.run(input, "shell"); err != nil {
		t.Fatalf("shell error = %v", err)
	}

	out := h.stdout.String()
	for _, want := range []string{
		"brainscan:/doctor-dashboard> ",
		"d@x.com",
		`"total": 3`,
		"brainscan:/> ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	errOut := h.stderr.String()
	for _, want := range []string{"redirected to /doctor-dashboard", ErrNestedShell.Error(), "Signed out"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
	if h.stored() != "" {
		t.Error("logout inside the shell did not clear the credential")
	}
	historyCalls := 0
	for _, req := range h.srv.seen() {
		if req.Method == http.MethodGet && req.Path == "/history" {
			historyCalls++
		}
	}
	if historyCalls != 2 {
		t.Errorf("GET /history called %d times, want 2", historyCalls)
	}
}
