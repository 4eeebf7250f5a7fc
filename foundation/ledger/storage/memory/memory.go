// Package memory implements the storage interfaces with an in-memory
// key/value store. Used for testing and for running ephemeral nodes.
package memory

import (
	"sort"
	"sync"

	"github.com/meridianchain/meridian/foundation/ledger/storage"
)

// Memory represents an in-memory key/value store with atomic batch writes.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New constructs an empty in-memory store.
func New() *Memory {
	return &Memory{
		data: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under the key.
func (m *Memory) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.data[string(key)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cpy := make([]byte, len(value))
	copy(cpy, value)
	return cpy, nil
}

// Batch returns a new batch of writes against this store.
func (m *Memory) Batch() storage.Batch {
	return &batch{mem: m}
}

// ForEach walks every key under the prefix in ascending key order. The
// order matters for audits that must produce the same result on every node.
func (m *Memory) ForEach(prefix []byte, fn func(key []byte, value []byte) error) error {
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		if len(key) >= len(prefix) && key[:len(prefix)] == string(prefix) {
			keys = append(keys, key)
		}
	}
	m.mu.RUnlock()

	sort.Strings(keys)

	for _, key := range keys {
		m.mu.RLock()
		value, exists := m.data[key]
		m.mu.RUnlock()
		if !exists {
			continue
		}

		if err := fn([]byte(key), value); err != nil {
			return err
		}
	}

	return nil
}

// Close satisfies the KV interface. There is nothing to release.
func (m *Memory) Close() error {
	return nil
}

// =============================================================================

type op struct {
	key    string
	value  []byte
	delete bool
}

type batch struct {
	mem *Memory
	ops []op
}

// Put stages a write into the batch.
func (b *batch) Put(key []byte, value []byte) {
	cpy := make([]byte, len(value))
	copy(cpy, value)

	b.ops = append(b.ops, op{key: string(key), value: cpy})
}

// Delete stages a delete into the batch.
func (b *batch) Delete(key []byte) {
	b.ops = append(b.ops, op{key: string(key), delete: true})
}

// Write applies every staged operation under a single lock so a reader
// never observes a partially applied batch.
func (b *batch) Write() error {
	b.mem.mu.Lock()
	defer b.mem.mu.Unlock()

	for _, op := range b.ops {
		if op.delete {
			delete(b.mem.data, op.key)
			continue
		}
		b.mem.data[op.key] = op.value
	}

	b.ops = nil
	return nil
}
