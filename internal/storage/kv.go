package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
	"github.com/yndnr/brainscan-go/pkg/crypto/adaptive"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv store closed")
)

// Drivers.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// KV is a small durable key/value store. Implementations are safe for
// concurrent use.
type KV interface {
	// Get returns the value for key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the store.
	Close() error
}

// Config selects and configures a KV backend.
type Config struct {
	// Driver is one of badger, sqlite, memory. Default: badger.
	Driver string

	// Dir is the base directory. Badger uses Dir/data, sqlite Dir/session.db.
	Dir string

	// Seal encrypts values with a key kept in Dir/secret.key.
	Seal bool
}

// Open builds the configured KV.
func Open(ctx context.Context, cfg Config, log logger.Logger) (KV, error) {
	if log == nil {
		log = logger.Default()
	}

	driver := strings.ToLower(cfg.Driver)
	if driver == "" {
		driver = DriverBadger
	}
	if driver != DriverMemory && cfg.Dir == "" {
		return nil, fmt.Errorf("storage: dir is required for driver %s", driver)
	}

	var (
		kv  KV
		err error
	)
	switch driver {
	case DriverBadger:
		kv, err = OpenBadger(filepath.Join(cfg.Dir, "data"), log)
	case DriverSQLite:
		kv, err = OpenSQLite(ctx, filepath.Join(cfg.Dir, "session.db"))
	case DriverMemory:
		kv = NewMemory()
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.Seal || driver == DriverMemory {
		return kv, nil
	}

	master, err := adaptive.LoadOrCreateKey(filepath.Join(cfg.Dir, "secret.key"))
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	sealed, err := NewSealed(kv, master)
	if err != nil {
		kv.Close()
		return nil, err
	}
	log.Debug("credential storage opened", "driver", driver, "sealed", true)
	return sealed, nil
}
