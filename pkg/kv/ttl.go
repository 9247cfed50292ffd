package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Expirer is implemented by backends that can drop a key after a TTL.
type Expirer interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
}

// Sweeper is implemented by backends that keep expired entries until told
// to purge them. Backends with native expiry (Redis) do not need it.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// SetWithTTL stores value under key for ttl. A non-positive ttl deletes the
// key. Backends that are not an Expirer keep the value until it is deleted.
func SetWithTTL(ctx context.Context, s Store, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	if e, ok := s.(Expirer); ok {
		return e.SetWithTTL(ctx, key, value, ttl)
	}
	return s.Set(ctx, key, value)
}

// SetJSONWithTTL is SetJSON with an expiry.
func SetJSONWithTTL(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return SetWithTTL(ctx, s, key, string(b), ttl)
}

// DeleteExpired purges expired entries and reports how many were removed.
func DeleteExpired(ctx context.Context, s Store) (int, error) {
	if sw, ok := s.(Sweeper); ok {
		return sw.DeleteExpired(ctx)
	}
	return 0, nil
}

func expired(deadline time.Time, now time.Time) bool {
	return !deadline.IsZero() && !now.Before(deadline)
}
