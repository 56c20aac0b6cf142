// Package metric records client-side Prometheus metrics.
//
// The client is short-lived, so nothing is scraped: a Registry is
// written once at exit with WriteFile when --metrics-file is set, in the
// node_exporter textfile format.
package metric
