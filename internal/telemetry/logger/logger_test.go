package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelWarn, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"Warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{" debug ", slog.LevelDebug, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("New() with unknown level should fail")
	}
}

func TestNew_DefaultsToWarnText(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("restored session")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at the default level, got %q", buf.String())
	}
	l.Warn("session restore failed", "driver", "badger")
	out := buf.String()
	if !strings.Contains(out, "session restore failed") || !strings.Contains(out, "driver=badger") {
		t.Errorf("text output = %q", out)
	}
}

func TestLogger_JSONAndWith(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.With("component", "monitor").Info("backend reachable", "url", "http://127.0.0.1:5000")

	entry := decodeEntry(t, &buf)
	if entry["msg"] != "backend reachable" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["component"] != "monitor" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "error", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { SetLevel("warn") })

	l.Info("before reload")
	if buf.Len() != 0 {
		t.Fatal("info should be filtered at error level")
	}

	SetLevel("debug")
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}
	l.Debug("after reload")
	if buf.Len() == 0 {
		t.Error("debug should be written after SetLevel(debug)")
	}

	SetLevel("nonsense")
	if got := GetLevel(); got != "debug" {
		t.Errorf("unknown level changed the level to %q", got)
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)
	SetDefault(l)

	Default().Info("signed in")
	if !strings.Contains(buf.String(), "signed in") {
		t.Errorf("Default() did not write to the new logger: %q", buf.String())
	}
}
