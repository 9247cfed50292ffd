package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Entries   map[string]string    `json:"entries"`
	ExpiresAt map[string]time.Time `json:"expires_at,omitempty"`
}

// FileStore persists all entries as one JSON document.
// Each write rewrites the whole document through a temp file and rename.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	data    map[string]string
	expires map[string]time.Time
}

// NewFileStore opens (or creates) the JSON document at path.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("kv: create data dir: %w", err)
	}
	s := &FileStore{
		path:    path,
		data:    make(map[string]string),
		expires: make(map[string]time.Time),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("kv: read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return nil
	}
	var doc fileDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	if doc.Entries != nil {
		s.data = doc.Entries
	}
	if doc.ExpiresAt != nil {
		s.expires = doc.ExpiresAt
	}
	return nil
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(fileDocument{Entries: s.data, ExpiresAt: s.expires}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("kv: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("kv: replace %s: %w", s.path, err)
	}
	return nil
}

// mutate applies fn and saves, restoring the previous state when the write fails.
func (s *FileStore) mutate(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, expires := maps.Clone(s.data), maps.Clone(s.expires)
	fn()
	if err := s.saveLocked(); err != nil {
		s.data, s.expires = data, expires
		return err
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok || expired(s.expires[key], time.Now()) {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.mutate(func() {
		s.data[key] = value
		delete(s.expires, key)
	})
}

func (s *FileStore) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.mutate(func() {
		s.data[key] = value
		s.expires[key] = time.Now().Add(ttl).UTC()
	})
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.RLock()
	_, had := s.data[key]
	s.mu.RUnlock()
	if !had {
		return nil
	}
	return s.mutate(func() {
		delete(s.data, key)
		delete(s.expires, key)
	})
}

// DeleteExpired drops expired entries with a single rewrite of the document.
func (s *FileStore) DeleteExpired(context.Context) (int, error) {
	now := time.Now()
	s.mu.RLock()
	found := false
	for _, deadline := range s.expires {
		if expired(deadline, now) {
			found = true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return 0, nil
	}

	n := 0
	err := s.mutate(func() {
		for key, deadline := range s.expires {
			if expired(deadline, now) {
				delete(s.data, key)
				delete(s.expires, key)
				n++
			}
		}
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
