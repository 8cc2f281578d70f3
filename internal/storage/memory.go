package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. Used by tests and as a throwaway backend.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

var _ KV = (*MemoryKV)(nil)

// Get returns a copy of the stored value
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	m.writes++
	return nil
}

// Writes reports how many Set calls have been made
func (m *MemoryKV) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Ping always succeeds
func (m *MemoryKV) Ping(context.Context) error { return nil }

// Close is a no-op
func (m *MemoryKV) Close() error { return nil }
