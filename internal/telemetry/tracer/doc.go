// Package tracer correlates backend requests with log lines.
//
// Each outbound request runs in a Span identified by a ULID. The ID is
// stored in the context (so logger.L picks it up), sent to the backend as
// X-Request-ID, and logged with the span duration when the span ends.
package tracer
