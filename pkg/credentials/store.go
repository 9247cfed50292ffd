package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kushi-labs/kushi/pkg/kv"
)

// Key is the durable storage key of the mapping.
const Key = "users"

// Store reads and writes the credential mapping through a kv.Store.
type Store struct {
	mu sync.Mutex
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// All returns the full mapping. A missing key reads as an empty mapping.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	users, err := kv.GetJSON[map[string]string](ctx, s.kv, Key)
	switch {
	case err == nil:
		if users == nil {
			users = make(map[string]string)
		}
		return users, nil
	case errors.Is(err, kv.ErrNotFound):
		return make(map[string]string), nil
	case errors.Is(err, kv.ErrMalformed):
		return nil, errors.Join(ErrCorrupted, err)
	default:
		return nil, fmt.Errorf("credentials: load: %w", err)
	}
}

// Lookup returns the secret stored for email. It reads the mapping fresh on
// every call.
func (s *Store) Lookup(ctx context.Context, email string) (string, bool, error) {
	users, err := s.All(ctx)
	if err != nil {
		return "", false, err
	}
	secret, ok := users[email]
	return secret, ok, nil
}

// Exists reports whether email has an entry.
func (s *Store) Exists(ctx context.Context, email string) (bool, error) {
	_, ok, err := s.Lookup(ctx, email)
	return ok, err
}

// Insert adds email with secret. It fails with ErrDuplicate when the email
// is already present, leaving the stored mapping untouched.
func (s *Store) Insert(ctx context.Context, email, secret string) error {
	if email == "" {
		return ErrEmptyEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.All(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[email]; ok {
		return ErrDuplicate
	}
	users[email] = secret

	if err := kv.SetJSON(ctx, s.kv, Key, users); err != nil {
		return fmt.Errorf("credentials: save: %w", err)
	}
	return nil
}
