package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Store is a string key-value store.
// Get returns ErrNotFound for missing keys; Delete of a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Checker is implemented by backends that depend on a remote server.
type Checker interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a probe for the store. Stores without a remote
// dependency are always healthy.
func Healthcheck(s Store) func(context.Context) error {
	return func(ctx context.Context) error {
		c, ok := s.(Checker)
		if !ok {
			return nil
		}
		if err := c.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// GetJSON reads key and decodes it into a T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return v, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}

// Lookup is Get with the not-found case folded into a boolean.
func Lookup(ctx context.Context, s Store, key string) (string, bool, error) {
	v, err := s.Get(ctx, key)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, ErrNotFound):
		return "", false, nil
	default:
		return "", false, err
	}
}

type prefixed struct {
	next   Store
	prefix string
}

// WithPrefix namespaces every key of s with prefix.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{next: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return p.next.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.next.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.next.Delete(ctx, p.prefix+key)
}

func (p *prefixed) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	return SetWithTTL(ctx, p.next, p.prefix+key, value, ttl)
}

// DeleteExpired sweeps the whole underlying store, not only this prefix.
func (p *prefixed) DeleteExpired(ctx context.Context) (int, error) {
	return DeleteExpired(ctx, p.next)
}

func (p *prefixed) Ping(ctx context.Context) error {
	if c, ok := p.next.(Checker); ok {
		return c.Ping(ctx)
	}
	return nil
}
