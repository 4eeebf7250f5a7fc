// Package storage declares the raw key/value behavior required by the
// ledger. Implementations must provide atomic batch writes since the
// executor discards or commits the writes of an operation as a whole.
package storage

import "errors"

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// KV represents the behavior required to be implemented by any package
// providing raw key/value storage for ledger records.
type KV interface {
	Get(key []byte) ([]byte, error)
	Batch() Batch
	ForEach(prefix []byte, fn func(key []byte, value []byte) error) error
	Close() error
}

// Batch accumulates a set of writes and deletes that are applied
// all-or-nothing by the call to Write. A batch that is never written
// has no effect on the store.
type Batch interface {
	Put(key []byte, value []byte)
	Delete(key []byte)
	Write() error
}
