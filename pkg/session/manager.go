package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kushi-labs/kushi/pkg/cookie"
	"github.com/kushi-labs/kushi/pkg/logger"
)

// Manager handles session operations
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	logger        *slog.Logger
	activityChan  chan activityUpdate
	done          chan struct{}
	closeOnce     sync.Once
	workerDone    chan struct{}
}

type activityUpdate struct {
	token string
	time  time.Time
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config:       DefaultConfig(),
		logger:       logger.Discard(),
		activityChan: make(chan activityUpdate, 1000),
		done:         make(chan struct{}),
		workerDone:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	go m.activityWorker()

	return m
}

// LoginPath returns the configured login page path.
func (m *Manager) LoginPath() string {
	return m.config.LoginPath
}

// Get retrieves an existing session
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Regenerate moves the request's session data to a fresh token and sends
// it to the client. Call it before recording a login so a token known
// before authentication never becomes an authenticated one.
func (m *Manager) Regenerate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := m.Get(ctx, r)
	if err != nil {
		session, err = m.createSession(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		newToken, err := generateToken()
		if err != nil {
			return nil, err
		}

		_ = m.store.Delete(ctx, session.Token)

		session.Token = newToken
		session.CreatedAt = time.Now()
		m.extend(session)

		if err := m.store.Create(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := m.transport.SetToken(w, session.Token); err != nil {
		return nil, err
	}
	return session, nil
}

// Destroy deletes the session
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		if err := m.store.Delete(ctx, token); err != nil {
			m.logger.WarnContext(ctx, "failed to delete session", logger.Error(err))
		}
	}

	return m.transport.ClearToken(w)
}

// Save persists session after recomputing its expiry for its current
// authentication state.
func (m *Manager) Save(ctx context.Context, session *Session) error {
	m.extend(session)
	session.Touch()
	return m.store.Update(ctx, session)
}

func (m *Manager) createSession(ctx context.Context) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	idle, max := m.config.GetTimeouts(false)
	now := time.Now()

	session := NewSession(token, calculateExpiry(now, now, idle, max).Sub(now))

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (m *Manager) extend(session *Session) {
	idle, max := m.config.GetTimeouts(session.IsAuthenticated())
	session.ExpiresAt = calculateExpiry(session.CreatedAt, time.Now(), idle, max)
}

func (m *Manager) shouldUpdateActivity(session *Session) bool {
	return time.Since(session.LastActivityAt) >= m.config.ActivityUpdateThreshold
}

func (m *Manager) queueActivityUpdate(token string) {
	select {
	case <-m.done:
	case m.activityChan <- activityUpdate{token: token, time: time.Now()}:
	default:
		// Channel full, drop update
	}
}

func (m *Manager) activityWorker() {
	defer close(m.workerDone)
	for {
		select {
		case update := <-m.activityChan:
			m.applyActivity(update)
		case <-m.done:
			// Drain remaining updates for graceful shutdown
			for {
				select {
				case update := <-m.activityChan:
					m.applyActivity(update)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) applyActivity(update activityUpdate) {
	err := m.store.UpdateActivity(context.Background(), update.token, update.time)
	if err != nil && !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
		m.logger.Warn("failed to update session activity", logger.Error(err))
	}
}

// Close stops the activity worker after draining queued updates, and
// closes the store when it supports it.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.done)
		<-m.workerDone
		if c, ok := m.store.(interface{ Close() error }); ok {
			err = c.Close()
		}
	})
	return err
}

// calculateExpiry returns the next expiry time (min of idle and max lifetime)
func calculateExpiry(createdAt, now time.Time, idle, max time.Duration) time.Time {
	idleExpiry := now.Add(idle)
	maxExpiry := createdAt.Add(max)

	if maxExpiry.Before(idleExpiry) {
		return maxExpiry
	}
	return idleExpiry
}

// generateToken creates a cryptographically secure token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
