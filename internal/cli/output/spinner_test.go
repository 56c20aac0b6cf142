package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinner_Outcome(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
		want string
	}{
		{"success", func(s *Spinner) { s.Success("Analysis complete") }, "✓ Analysis complete\n"},
		{"fail", func(s *Spinner) { s.Fail("Analysis failed") }, "✗ Analysis failed\n"},
		{"stop", func(s *Spinner) { s.Stop() }, "\r\033[K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewSpinner(&buf, "Analyzing scan.png")
			s.Start()
			time.Sleep(20 * time.Millisecond)
			tt.stop(s)

			out := buf.String()
			if !strings.Contains(out, "Analyzing scan.png") {
				t.Errorf("output %q lacks the message", out)
			}
			if !strings.HasSuffix(out, tt.want) {
				t.Errorf("output %q should end with %q", out, tt.want)
			}
		})
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	NewSpinner(&buf, "idle").Stop()

	if buf.String() != "\r\033[K" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinner_FirstStopWins(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Uploading")
	s.Start()
	s.Start()

	s.Success("Uploaded")
	s.Fail("ignored")
	s.Stop()

	if strings.Contains(buf.String(), "ignored") {
		t.Error("only the first stop should print")
	}
}
