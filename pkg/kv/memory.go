package kv

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps values in a process-local map.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]string
	expires map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:    make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok || expired(m.expires[key], time.Now()) {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	delete(m.expires, key)
	return nil
}

func (m *MemoryStore) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.expires[key] = time.Now().Add(ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.expires, key)
	return nil
}

func (m *MemoryStore) DeleteExpired(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	n := 0
	for key, deadline := range m.expires {
		if expired(deadline, now) {
			delete(m.data, key)
			delete(m.expires, key)
			n++
		}
	}
	return n, nil
}

// Snapshot returns a copy of the stored entries, expired ones that were not
// swept yet included.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.data)
}
