package counter

import (
	"context"
	"sync"
)

// MemoryStore keeps counters in process memory. It is only suitable for local
// development and tests: counts are lost on restart and not shared between
// instances.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int64
	down   bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int64)}
}

// SetUnavailable toggles a simulated outage: while set, every call fails with
// ErrUnavailable and no value changes.
func (m *MemoryStore) SetUnavailable(down bool) {
	m.mu.Lock()
	m.down = down
	m.mu.Unlock()
}

func (m *MemoryStore) Get(_ context.Context, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return 0, false, ErrUnavailable
	}
	n, ok := m.values[key]
	return n, ok, nil
}

func (m *MemoryStore) IncrementBy(_ context.Context, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return 0, ErrUnavailable
	}
	m.values[key] += delta
	return m.values[key], nil
}

func (m *MemoryStore) MultiGet(_ context.Context, keys []string) ([]Value, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, ErrUnavailable
	}
	return orderValues(keys, m.values), nil
}

func (m *MemoryStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return ErrUnavailable
	}
	return nil
}
