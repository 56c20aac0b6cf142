package metric

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brainscan"

// Registry holds all client metrics.
type Registry struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SessionRestores *prometheus.CounterVec
}

// NewRegistry creates a registry with every client metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend API requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend API round-trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		SessionRestores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "restores_total",
			Help:      "Session restore attempts by outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.RequestsTotal, r.RequestDuration, r.SessionRestores)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveRequest records one API round-trip. status 0 means the request
// never got a response.
func (r *Registry) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	route := Route(path)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.RequestsTotal.WithLabelValues(method, route, code).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRestore records a session restore outcome.
func (r *Registry) ObserveRestore(outcome string) {
	r.SessionRestores.WithLabelValues(outcome).Inc()
}

// WriteFile writes the registry to path in text exposition format.
func (r *Registry) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Route collapses identifier segments of an API path so label
// cardinality stays bounded: "/history/65f0c1" becomes "/history/:id".
// Everything from /static/ on is collapsed to "/static/*".
func Route(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	segs := strings.Split(path, "/")
	for i, s := range segs {
		if isIdentifier(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

// isIdentifier treats any segment that is not plain lowercase words as an id.
func isIdentifier(seg string) bool {
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if !unicode.IsLower(r) && r != '-' && r != '_' {
			return true
		}
	}
	return false
}
