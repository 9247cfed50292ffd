package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/kushi-labs/kushi/pkg/kv"
)

// Session-scoped and durable storage keys written by the flows.
const (
	SessionUserKey     = "user"
	SessionUserNameKey = "userName"
	RememberedEmailKey = "email"
)

// Identity is the session record established by Login.
type Identity struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// DisplayName returns the part of email before the first "@", or the whole
// email when it has none.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// CurrentIdentity reads the session record. ok is false when no user is
// logged in.
func CurrentIdentity(ctx context.Context, session kv.Store) (Identity, bool, error) {
	email, ok, err := kv.Lookup(ctx, session, SessionUserKey)
	if err != nil {
		return Identity{}, false, fmt.Errorf("auth: read session: %w", err)
	}
	if !ok || email == "" {
		return Identity{}, false, nil
	}

	name, ok, err := kv.Lookup(ctx, session, SessionUserNameKey)
	if err != nil {
		return Identity{}, false, fmt.Errorf("auth: read session: %w", err)
	}
	if !ok {
		name = DisplayName(email)
	}
	return Identity{Email: email, DisplayName: name}, true, nil
}

// RememberedEmail returns the email stored by an opted-in login, or "".
func RememberedEmail(ctx context.Context, durable kv.Store) (string, error) {
	email, _, err := kv.Lookup(ctx, durable, RememberedEmailKey)
	if err != nil {
		return "", fmt.Errorf("auth: read remembered email: %w", err)
	}
	return email, nil
}
