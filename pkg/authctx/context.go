package authctx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/statemachine"
)

// UserKey is the durable storage key of the authenticated user.
const UserKey = "user"

const (
	Loading         = statemachine.StringState("loading")
	Unauthenticated = statemachine.StringState("unauthenticated")
	Authenticated   = statemachine.StringState("authenticated")
)

const (
	EventMount    = statemachine.StringEvent("mount")
	EventLogin    = statemachine.StringEvent("login")
	EventRegister = statemachine.StringEvent("register")
	EventLogout   = statemachine.StringEvent("logout")
)

// User is the authenticated user record.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Result is returned by Login and Register.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Context holds the auth state of one client.
type Context struct {
	store  kv.Store
	logger *slog.Logger
	newID  func() string

	sm *statemachine.Machine

	mu   sync.RWMutex
	user *User
}

type Option func(*Context)

func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIDGenerator replaces the uuid-based user ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Context) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New creates a Context in the Loading state. Call Mount before use.
func New(store kv.Store, opts ...Option) *Context {
	c := &Context{
		store:  store,
		logger: logger.Discard(),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}

	persist := statemachine.WithAction(c.persist)
	c.sm = statemachine.MustNew(Loading,
		statemachine.WithTransition(Loading, Authenticated, EventMount,
			statemachine.WithGuard(userLoaded),
			statemachine.WithAction(c.adopt),
		),
		statemachine.WithTransition(Loading, Unauthenticated, EventMount),
		statemachine.WithTransition(Unauthenticated, Authenticated, EventLogin, persist),
		statemachine.WithTransition(Unauthenticated, Authenticated, EventRegister, persist),
		statemachine.WithTransition(Authenticated, Authenticated, EventLogin, persist),
		statemachine.WithTransition(Authenticated, Authenticated, EventRegister, persist),
		statemachine.WithTransition(Authenticated, Unauthenticated, EventLogout,
			statemachine.WithAction(c.forget),
		),
		statemachine.WithTransition(Unauthenticated, Unauthenticated, EventLogout,
			statemachine.WithAction(c.forget),
		),
		statemachine.WithObserver(c.observe),
	)
	return c
}

// Load creates a Context and mounts it.
func Load(ctx context.Context, store kv.Store, opts ...Option) (*Context, error) {
	c := New(store, opts...)
	if err := c.Mount(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Mount reads the stored user and leaves the Loading state. Calling it again
// re-reads storage. A stored record that cannot be decoded counts as absent.
func (c *Context) Mount(ctx context.Context) error {
	if !c.sm.Is(Loading) {
		if err := c.sm.Reset(); err != nil {
			return err
		}
		c.setUser(nil)
	}

	// Any stored record counts as a user, even one with empty fields; only
	// an absent key or a JSON null does not.
	user, err := kv.GetJSON[*User](ctx, c.store, UserKey)
	switch {
	case err == nil:
		return c.sm.Fire(ctx, EventMount, user)
	case errors.Is(err, kv.ErrNotFound):
		return c.sm.Fire(ctx, EventMount, nil)
	case errors.Is(err, kv.ErrMalformed):
		c.logger.WarnContext(ctx, "ignoring unreadable stored user",
			logger.Component("authctx"),
			logger.Error(err),
		)
		return c.sm.Fire(ctx, EventMount, nil)
	default:
		return fmt.Errorf("authctx: read user: %w", err)
	}
}

// User returns the authenticated user.
func (c *Context) User() (User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return User{}, false
	}
	return *c.user, true
}

func (c *Context) IsAuthenticated() bool { return c.sm.Is(Authenticated) }

func (c *Context) IsLoading() bool { return c.sm.Is(Loading) }

// CurrentUser returns the user, or ErrNotAuthenticated when there is none.
func (c *Context) CurrentUser() (User, error) {
	if u, ok := c.User(); ok && c.IsAuthenticated() {
		return u, nil
	}
	return User{}, ErrNotAuthenticated
}

// State returns the current state.
func (c *Context) State() statemachine.State { return c.sm.Current() }

// Login signs in as email. The password is accepted as is.
func (c *Context) Login(ctx context.Context, email, password string) Result {
	return c.signIn(ctx, EventLogin, User{
		ID:    c.newID(),
		Name:  auth.DisplayName(email),
		Email: email,
	})
}

// Register signs in as a new user named name.
func (c *Context) Register(ctx context.Context, name, email, password string) Result {
	return c.signIn(ctx, EventRegister, User{
		ID:    c.newID(),
		Name:  name,
		Email: email,
	})
}

// Logout clears the stored user. Logging out while unauthenticated is a
// no-op apart from clearing storage.
func (c *Context) Logout(ctx context.Context) error {
	if err := c.ensureMounted(ctx); err != nil {
		return err
	}
	return c.sm.Fire(ctx, EventLogout, nil)
}

func (c *Context) signIn(ctx context.Context, event statemachine.Event, user User) Result {
	if err := c.ensureMounted(ctx); err != nil {
		return c.failure(ctx, event, err)
	}
	if err := c.sm.Fire(ctx, event, &user); err != nil {
		return c.failure(ctx, event, err)
	}
	return Result{Success: true}
}

func (c *Context) failure(ctx context.Context, event statemachine.Event, err error) Result {
	c.logger.ErrorContext(ctx, "auth context transition failed",
		logger.Component("authctx"),
		logger.Event(event.Name()),
		logger.Error(err),
	)
	return Result{Success: false, Error: "Something went wrong, please try again"}
}

func (c *Context) ensureMounted(ctx context.Context) error {
	if c.sm.Is(Loading) {
		return c.Mount(ctx)
	}
	return nil
}

func (c *Context) setUser(u *User) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

func userLoaded(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	u, ok := data.(*User)
	return ok && u != nil
}

func (c *Context) adopt(_ context.Context, _, _ statemachine.State, _ statemachine.Event, data any) error {
	u := *data.(*User)
	c.setUser(&u)
	return nil
}

func (c *Context) persist(ctx context.Context, _, _ statemachine.State, _ statemachine.Event, data any) error {
	u, ok := data.(*User)
	if !ok || u == nil {
		return ErrPersist
	}
	b, err := json.Marshal(u)
	if err != nil {
		return errors.Join(ErrPersist, err)
	}
	if err := c.store.Set(ctx, UserKey, string(b)); err != nil {
		return errors.Join(ErrPersist, err)
	}
	cp := *u
	c.setUser(&cp)
	return nil
}

func (c *Context) forget(ctx context.Context, _, _ statemachine.State, _ statemachine.Event, _ any) error {
	if err := c.store.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("authctx: clear user: %w", err)
	}
	c.setUser(nil)
	return nil
}

func (c *Context) observe(ctx context.Context, from, to statemachine.State, event statemachine.Event) {
	c.logger.DebugContext(ctx, "auth state changed",
		logger.Component("authctx"),
		logger.Event(event.Name()),
		slog.String("from", from.Name()),
		slog.String("to", to.Name()),
	)
}
