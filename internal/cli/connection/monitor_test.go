package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewMonitor_DefaultInterval(t *testing.T) {
	m := NewMonitor(newTestClient(t, "http://localhost"), 0)
	if m.interval != DefaultMonitorInterval {
		t.Errorf("interval = %v, want %v", m.interval, DefaultMonitorInterval)
	}
	if m.IsConnected() {
		t.Error("new monitor should not report connected")
	}
}

func TestMonitor_Check(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	notes := &captureNotifier{}
	m := NewMonitor(newTestClient(t, server.URL, WithNotifier(notes)), time.Minute)

	var changes []bool
	m.OnChange(func(st Status) { changes = append(changes, st.Connected) })

	if st := m.Check(context.Background()); !st.Connected || st.LastChecked.IsZero() {
		t.Errorf("Check() = %+v, want connected", st)
	}
	m.Check(context.Background())

	healthy.Store(false)
	if st := m.Check(context.Background()); st.Connected || st.Error == "" {
		t.Errorf("Check() = %+v, want disconnected with error", st)
	}

	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Errorf("changes = %v, want [true false]", changes)
	}
	if len(notes.messages) != 0 {
		t.Errorf("probe must not raise notices, got %v", notes.messages)
	}
}

func TestMonitor_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	m := NewMonitor(newTestClient(t, url), time.Minute)
	st := m.Check(context.Background())
	if st.Connected || st.Error != MsgCannotConnect {
		t.Errorf("Check() = %+v", st)
	}
}

func TestMonitor_Run(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	m := NewMonitor(newTestClient(t, server.URL), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(55 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if hits.Load() < 2 {
		t.Errorf("hits = %d, want at least 2", hits.Load())
	}
	if !m.IsConnected() {
		t.Error("monitor should report connected")
	}
}
