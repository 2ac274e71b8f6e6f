package storage

import (
	"context"
	"sync"

	"github.com/rl1809/storefront/internal/port"
)

// MemoryAdapter keeps entries in process memory. Everything is lost on exit.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]port.Entry
	claims  map[string]struct{}
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]port.Entry),
		claims:  make(map[string]struct{}),
	}
}

func (m *MemoryAdapter) Get(ctx context.Context, key string) (port.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *MemoryAdapter) Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.entries[key].Version
	if expectedVersion != port.AnyVersion && current != expectedVersion {
		return 0, port.ErrOptimisticLock
	}

	next := current + 1
	m.entries[key] = port.Entry{Value: value, Version: next}
	return next, nil
}

func (m *MemoryAdapter) Claim(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.claims[key]; ok {
		return false, nil
	}
	m.claims[key] = struct{}{}
	return true, nil
}

func (m *MemoryAdapter) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.claims, key)
	return nil
}
