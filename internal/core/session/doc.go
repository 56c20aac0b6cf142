// Package session holds the signed-in identity of the running client.
//
// A Store is constructed once at startup and passed to whatever needs it.
// It keeps the raw credential in a single durable slot, projects the
// decoded claims into a State, and exposes the derived role checks that
// the route gate consumes. Restore must run before any gate decision;
// it flips State.Initialized exactly once.
package session
