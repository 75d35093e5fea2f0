// Package storage provides the durable key/value slots the client keeps
// between runs. Each key holds one opaque value; there is no locking across
// processes, the last writer wins.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// ErrCorrupt is returned by Get when the backing document cannot be parsed.
// Set and Remove replace such a document instead of failing.
var ErrCorrupt = errors.New("storage: corrupt document")

// Storage is a durable key/value store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Supported drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the storage backend for driver rooted at dir.
func Open(ctx context.Context, driver, dir string) (Storage, error) {
	switch driver {
	case DriverFile, "":
		return NewFile(dir)
	case DriverSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, "uitam.db"))
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage.Open: unknown driver %q", driver)
	}
}
