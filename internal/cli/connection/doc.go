// Package connection is the transport between the CLI and the Brain Scan
// backend.
//
//   - http.go: HTTPClient with credential headers, rate limiting and metrics
//   - errors.go: APIError and the status/transport message table
//   - monitor.go: periodic reachability probe of /status
//
// Every response passes through HTTPClient.Decode, which is the single
// place a rejected credential ends the session.
package connection
