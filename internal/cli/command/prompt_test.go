package command

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPrompter_Line(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"trimmed", "  d@x.com  \n", "d@x.com", nil},
		{"partial line at EOF", "abc", "abc", nil},
		{"empty input", "", "", io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)
			got, err := p.Line("Email")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Line() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
			if out.String() != "Email: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestPrompter_PasswordFromPipe(t *testing.T) {
	called := false
	orig := readPassword
	readPassword = func(int) ([]byte, error) {
		called = true
		return nil, nil
	}
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("hunter2\n"), &out)
	got, err := p.Password("Password")
	if err != nil {
		t.Fatalf("Password() error = %v", err)
	}
	if got != "hunter2" {
		t.Errorf("Password() = %q", got)
	}
	if called {
		t.Error("terminal reader used for piped input")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input   string
		force   bool
		wantErr error
	}{
		{"y\n", false, nil},
		{"YES\n", false, nil},
		{"n\n", false, ErrAborted},
		{"\n", false, ErrAborted},
		{"", false, ErrAborted},
		{"", true, nil},
	}
	for _, tt := range tests {
		p := NewPrompter(strings.NewReader(tt.input), io.Discard)
		if err := confirm(p, tt.force, "Sure?"); !errors.Is(err, tt.wantErr) {
			t.Errorf("confirm(%q, force=%v) = %v, want %v", tt.input, tt.force, err, tt.wantErr)
		}
	}
}

func TestValueOrPrompt(t *testing.T) {
	p := NewPrompter(strings.NewReader("typed\n"), io.Discard)

	got, err := valueOrPrompt(p, "given", "Name", false)
	if err != nil || got != "given" {
		t.Errorf("valueOrPrompt with value = %q, %v", got, err)
	}
	got, err = valueOrPrompt(p, "", "Name", false)
	if err != nil || got != "typed" {
		t.Errorf("valueOrPrompt without value = %q, %v", got, err)
	}
}
