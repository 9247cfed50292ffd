package session

import (
	"context"
	"sync"

	"github.com/kushi-labs/kushi/pkg/kv"
)

// Values exposes one session's data as a kv.Store. Every write is saved
// through the manager immediately, which also recomputes the expiry, so
// recording the user key switches the session to authenticated lifetimes.
type Values struct {
	m       *Manager
	mu      sync.Mutex
	session *Session
}

var _ kv.Store = (*Values)(nil)

// Values binds session to the manager's store.
func (m *Manager) Values(session *Session) *Values {
	return &Values{m: m, session: session}
}

// Session returns the underlying session.
func (v *Values) Session() *Session {
	return v.session
}

func (v *Values) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", kv.ErrEmptyKey
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	value, ok := v.session.Get(key)
	if !ok {
		return "", kv.ErrNotFound
	}
	return value, nil
}

func (v *Values) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.session.Set(key, value)
	return v.m.Save(ctx, v.session)
}

func (v *Values) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.session.Get(key); !ok {
		return nil
	}
	v.session.Delete(key)
	return v.m.Save(ctx, v.session)
}
