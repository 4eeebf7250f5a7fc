// Package leveldb implements the storage interfaces on top of a goleveldb
// database. LevelDB batches are applied atomically which provides the
// all-or-nothing commit the executor depends on.
package leveldb

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/meridianchain/meridian/foundation/ledger/storage"
)

// LevelDB represents a disk backed key/value store.
type LevelDB struct {
	db *leveldb.DB
}

// New opens or creates the database at the specified path.
func New(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening leveldb at %q: %w", path, err)
	}

	return &LevelDB{db: db}, nil
}

// Get returns the value stored under the key.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	return value, nil
}

// Batch returns a new batch of writes against this store.
func (l *LevelDB) Batch() storage.Batch {
	return &batch{db: l.db, b: new(leveldb.Batch)}
}

// ForEach walks every key under the prefix in ascending key order.
func (l *LevelDB) ForEach(prefix []byte, fn func(key []byte, value []byte) error) error {
	iter := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())

		if err := fn(key, value); err != nil {
			return err
		}
	}

	return iter.Error()
}

// Close releases the underlying database handle.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// =============================================================================

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

// Put stages a write into the batch.
func (b *batch) Put(key []byte, value []byte) {
	b.b.Put(key, value)
}

// Delete stages a delete into the batch.
func (b *batch) Delete(key []byte) {
	b.b.Delete(key)
}

// Write applies the staged operations atomically.
func (b *batch) Write() error {
	if err := b.db.Write(b.b, nil); err != nil {
		return fmt.Errorf("writing batch: %w", err)
	}

	b.b.Reset()
	return nil
}
