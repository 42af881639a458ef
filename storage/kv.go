// Package storage provides the per-device key/value store that keeps the
// economy, high score and other local state between runs.
package storage

import (
	"errors"
	"strings"
)

// KV is a flat string key/value store. Get reports ok=false for keys that
// were never written.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

var ErrClosed = errors.New("storage: closed")

// Open picks a backend from the path: ":memory:" keeps everything in
// memory, ".db"/".sqlite" files use SQLite and anything else is a JSON file.
func Open(path string) (KV, error) {
	switch {
	case path == "" || path == ":memory:":
		return NewMemory(), nil
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		return NewSQLite(path)
	default:
		return NewFile(path)
	}
}
