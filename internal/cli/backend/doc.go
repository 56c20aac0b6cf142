// Package backend binds the Brain Scan HTTP API to typed Go calls.
//
// Each method is one endpoint. Transport, credentials and error
// interception belong to connection.HTTPClient; this package only knows
// paths and response envelopes.
package backend
