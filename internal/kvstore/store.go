package kvstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key is absent.
var ErrNotFound = errors.New("kvstore: not found")

// Reader is the ordered range scan capability the pipeline needs.
type Reader interface {
	// Get returns a copy of the value stored at key or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Iterate calls fn for every key in [start, limit) in ascending key order.
	// A nil bound is open. key and value are only valid for the duration of fn.
	// Iteration stops at the first error returned by fn.
	Iterate(start, limit []byte, fn func(key, value []byte) error) error
	Close() error
}

type Writer interface {
	Put(key, value []byte) error
	// Flush persists pending writes.
	Flush() error
}

type Backend string

const (
	BackendLevelDB Backend = "leveldb"
	BackendPebble  Backend = "pebble"
)

// OpenReader opens an existing store read-only.
func OpenReader(backend Backend, path string) (Reader, error) {
	switch backend {
	case BackendLevelDB, "":
		db, err := OpenLevelDB(path)
		if err != nil {
			return nil, fmt.Errorf("open leveldb %s: %w", path, err)
		}
		return db, nil
	case BackendPebble:
		db, err := OpenPebble(path, true)
		if err != nil {
			return nil, fmt.Errorf("open pebble %s: %w", path, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}
