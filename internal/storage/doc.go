// Package storage persists the client's session credential.
//
// A KV is a tiny durable key/value store; three backends are provided:
//
//   - badger: embedded LSM store under a data directory (default)
//   - sqlite: single file database, schema managed by goose migrations
//   - memory: process-local map, nothing survives exit
//
// Sealed wraps any KV and encrypts values at rest. Slot adapts a KV to the
// single-credential contract the session store expects.
package storage
