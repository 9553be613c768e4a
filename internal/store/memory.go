package store

import (
	"sync"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// MemoryStore is an in-memory implementation of the KVStore interface.
// It keeps all values in a map, making it useful for testing and for
// ephemeral deployments. This implementation is safe for concurrent use.
type MemoryStore struct {
	name   string
	values map[string][]byte
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with the given name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:   name,
		values: make(map[string][]byte),
	}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}

	// Return a copy so callers cannot mutate stored state.
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put stores value under key, replacing any previous value.
func (m *MemoryStore) Put(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = stored
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// Compile-time check that MemoryStore implements shop.KVStore
var _ shop.KVStore = (*MemoryStore)(nil)
