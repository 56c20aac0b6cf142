package connection

import (
	"context"
	"sync"
	"time"
)

// DefaultMonitorInterval is how often the monitor probes /status.
const DefaultMonitorInterval = 30 * time.Second

// Status is the last known reachability of the backend.
type Status struct {
	Connected   bool      `json:"connected" yaml:"connected"`
	LastChecked time.Time `json:"last_checked" yaml:"last_checked"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Monitor periodically probes the backend's status endpoint.
type Monitor struct {
	client   *HTTPClient
	interval time.Duration

	mu       sync.RWMutex
	status   Status
	onChange func(Status)
}

// NewMonitor creates a monitor. A non-positive interval uses the default.
func NewMonitor(client *HTTPClient, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	return &Monitor{client: client, interval: interval}
}

// OnChange registers fn to receive the status whenever Connected flips.
func (m *Monitor) OnChange(fn func(Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Check probes the backend once and records the result.
func (m *Monitor) Check(ctx context.Context) Status {
	st := Status{LastChecked: time.Now()}

	resp, err := m.client.probe(ctx)
	switch {
	case err != nil:
		st.Error = err.Error()
	default:
		resp.Body.Close()
		st.Connected = resp.StatusCode < 500
		if !st.Connected {
			st.Error = resp.Status
		}
	}

	m.mu.Lock()
	changed := m.status.Connected != st.Connected || m.status.LastChecked.IsZero()
	m.status = st
	fn := m.onChange
	m.mu.Unlock()

	if changed && fn != nil {
		fn(st)
	}
	return st
}

// Run checks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Status returns the last recorded status.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// IsConnected returns true if the last probe reached the backend.
func (m *Monitor) IsConnected() bool {
	return m.Status().Connected
}
