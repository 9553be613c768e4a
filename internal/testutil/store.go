package testutil

import (
	"errors"
	"sync"
)

// ErrStubFailure is a sentinel error for injected store failures.
var ErrStubFailure = errors.New("stub store failure")

// StubStore is an in-memory key-value store with injectable hooks and
// failure modes for exercising degraded-storage paths.
type StubStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// OnGet, when set, is called before each Get with the requested key.
	// Tests can use it to block reads or record access order.
	OnGet func(key string)
	// OnPut, when set, is called before each Put.
	OnPut func(key string, value []byte)

	// FailGets and FailPuts, when non-nil, are returned as the error
	// from every Get or Put.
	FailGets error
	FailPuts error

	putCount int
	getCount int
}

func NewStubStore() *StubStore {
	return &StubStore{data: make(map[string][]byte)}
}

func (s *StubStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	s.getCount++
	hook := s.OnGet
	s.mu.Unlock()

	if hook != nil {
		hook(key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailGets != nil {
		return nil, false, s.FailGets
	}
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *StubStore) Put(key string, value []byte) error {
	s.mu.Lock()
	s.putCount++
	hook := s.OnPut
	s.mu.Unlock()

	if hook != nil {
		hook(key, value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPuts != nil {
		return s.FailPuts
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

func (s *StubStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *StubStore) ValidateSetup() error { return nil }

func (s *StubStore) Close() error { return nil }

// Seed writes a value directly, bypassing hooks and failure modes.
func (s *StubStore) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
}

// Raw returns the stored bytes for key, bypassing hooks.
func (s *StubStore) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok
}

// PutCount reports how many Put calls the store has seen.
func (s *StubStore) PutCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.putCount
}

// GetCount reports how many Get calls the store has seen.
func (s *StubStore) GetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getCount
}
