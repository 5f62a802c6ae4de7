package store

import (
	"context"
	"sync"
)

// Memory is an in-process store. Entries live as long as the value, so it
// suits tests and programs that embed the search; the CLI uses Redis.
type Memory struct {
	mu      sync.Mutex
	entries map[Key]Entry
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{entries: map[Key]Entry{}}
}

// Get returns the entry under key or ErrNotFound.
func (m *Memory) Get(ctx context.Context, key Key) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Put keeps the entry unless an optimal one with a better ratio is already stored.
func (m *Memory) Put(ctx context.Context, key Key, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[key]; ok && !better(e, old) {
		return nil
	}
	m.entries[key] = e
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// better reports whether e should replace old.
func better(e, old Entry) bool {
	if e.Optimal != old.Optimal {
		return e.Optimal
	}
	return e.Ratio >= old.Ratio
}
