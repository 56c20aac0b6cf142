package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHistory_AddAndGet(t *testing.T) {
	h := NewHistory("", 0)
	if h.maxSize != DefaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, DefaultHistorySize)
	}

	h.Add("login")
	h.Add("history list")
	h.Add("history list")
	h.Add("logout")

	tests := []struct {
		index int
		want  string
	}{
		{0, "logout"},
		{1, "history list"},
		{2, "login"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory("", 3)
	for i := 0; i < 5; i++ {
		h.Add(fmt.Sprintf("cmd%d", i))
	}
	if got := h.Entries(); !reflect.DeepEqual(got, []string{"cmd2", "cmd3", "cmd4"}) {
		t.Errorf("Entries() = %v", got)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(file, 10)
	h.Add("login --email a@b.com")
	h.Add("predict scan.png")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	loaded := NewHistory(file, 1)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Entries(); !reflect.DeepEqual(got, []string{"predict scan.png"}) {
		t.Errorf("Entries() = %v, want trimmed to newest", got)
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"), 10)
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v, want nil", err)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("", 10)
	h.Add("whoami")
	if err := h.Save(); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}
