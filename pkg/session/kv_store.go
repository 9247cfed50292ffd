package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kushi-labs/kushi/pkg/kv"
)

// DefaultKVPrefix namespaces session records inside a shared kv.Store.
const DefaultKVPrefix = "session:"

// KVStore persists sessions as JSON documents in any kv.Store, keyed by
// token. Records are written with a TTL matching the session expiry;
// backends that keep expired keys are swept every cleanupInterval.
type KVStore struct {
	kv     kv.Store
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

var _ Store = (*KVStore)(nil)

// NewKVStore wraps store, prefixing keys with DefaultKVPrefix. A positive
// cleanupInterval starts a goroutine that calls DeleteExpired until Close.
func NewKVStore(store kv.Store, cleanupInterval time.Duration) *KVStore {
	s := &KVStore{
		kv:   kv.WithPrefix(store, DefaultKVPrefix),
		done: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}
	return s
}

func (s *KVStore) put(ctx context.Context, session *Session) error {
	return kv.SetJSONWithTTL(ctx, s.kv, session.Token, session, time.Until(session.ExpiresAt))
}

func (s *KVStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	return s.put(ctx, session)
}

func (s *KVStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := kv.GetJSON[*Session](ctx, s.kv, token)
	switch {
	case errors.Is(err, kv.ErrNotFound), errors.Is(err, kv.ErrMalformed):
		return nil, ErrSessionNotFound
	case err != nil:
		return nil, err
	case session == nil:
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.kv.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *KVStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	if _, err := s.kv.Get(ctx, session.Token); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return s.put(ctx, session)
}

func (s *KVStore) UpdateActivity(ctx context.Context, token string, lastActivity time.Time) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	session.LastActivityAt = lastActivity
	return s.put(ctx, session)
}

func (s *KVStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.kv.Delete(ctx, token)
}

func (s *KVStore) DeleteExpired(ctx context.Context) error {
	_, err := kv.DeleteExpired(ctx, s.kv)
	return err
}

// Close stops the cleanup goroutine.
func (s *KVStore) Close() error {
	s.once.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
	return nil
}

func (s *KVStore) cleanupLoop() {
	for {
		select {
		case <-s.ticker.C:
			_ = s.DeleteExpired(context.Background())
		case <-s.done:
			return
		}
	}
}
