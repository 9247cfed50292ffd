// Package kv defines the small key-value port every kushi flow persists
// through, together with the backends that satisfy it.
//
// The flows in this module were born in the browser, where "storage" means
// a per-origin map of string keys to string values. Store keeps exactly that
// shape so the flows stay simple and trivially fakeable in tests, while the
// backends decide where the bytes actually live:
//
//   - MemoryStore   – process-local map, the default and the test double
//   - FileStore     – a single JSON document on disk
//   - RedisStore    – github.com/redis/go-redis/v9
//   - PostgresStore – github.com/jackc/pgx/v5, table kv_entries
//   - S3Store       – github.com/aws/aws-sdk-go-v2/service/s3, one object per key
//
// # Usage
//
//	store := kv.NewMemoryStore()
//	_ = store.Set(ctx, "theme", "dark")
//
//	v, err := store.Get(ctx, "theme")
//	if errors.Is(err, kv.ErrNotFound) {
//	    // fall back to a default
//	}
//
// Structured values are stored as JSON through the generic helpers:
//
//	users, err := kv.GetJSON[map[string]string](ctx, store, "users")
//	err = kv.SetJSON(ctx, store, "users", users)
//
// Several logical stores can share one backend through WithPrefix:
//
//	shared := kv.WithPrefix(redisStore, "kushi:")
//
// # Concurrency
//
// Every backend is safe for concurrent use. Writes are last-writer-wins;
// there is no compare-and-swap, so read-modify-write sequences that span
// processes can lose updates. Callers that need in-process atomicity
// (e.g. the credential store) hold their own lock around the sequence.
package kv
