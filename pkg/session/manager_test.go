package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushi-labs/kushi/pkg/cookie"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/session"
)

func testConfig() session.Config {
	return session.Config{
		CookieName:              "test-sid",
		AnonIdleTimeout:         30 * time.Minute,
		AnonMaxLifetime:         24 * time.Hour,
		AuthIdleTimeout:         2 * time.Hour,
		AuthMaxLifetime:         24 * time.Hour,
		ActivityUpdateThreshold: 5 * time.Minute,
		CleanupInterval:         0, // Disable cleanup for tests
		LoginPath:               "/login",
	}
}

func setupManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()

	cookieMgr, err := cookie.New([]string{"test-secret-key-that-is-long-enough-for-aes"})
	require.NoError(t, err)

	m := session.New(append([]session.Option{
		session.WithCookieManager(cookieMgr),
		session.WithConfig(testConfig()),
	}, opts...)...)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

// newSession starts an anonymous session and returns it with the response
// that carries its cookie.
func newSession(t *testing.T, manager *session.Manager) (*session.Session, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	sess, err := manager.Regenerate(context.Background(), w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return sess, w
}

func configured(fn func(*session.Config)) session.Option {
	cfg := testConfig()
	fn(&cfg)
	return session.WithConfig(cfg)
}

func TestManager_Get(t *testing.T) {
	t.Parallel()

	manager := setupManager(t)
	ctx := context.Background()

	_, err := manager.Get(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	created, w := newSession(t, manager)

	got, err := manager.Get(ctx, requestWithCookies(w))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestManager_Expiry(t *testing.T) {
	t.Parallel()

	manager := setupManager(t, configured(func(c *session.Config) { c.AnonIdleTimeout = 20 * time.Millisecond }))
	ctx := context.Background()

	_, w := newSession(t, manager)

	time.Sleep(40 * time.Millisecond)

	_, err := manager.Get(ctx, requestWithCookies(w))
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestManager_Regenerate(t *testing.T) {
	t.Parallel()

	manager := setupManager(t)
	ctx := context.Background()

	sess, w1 := newSession(t, manager)
	require.NoError(t, manager.Values(sess).Set(ctx, "flash", "hello"))
	oldToken := sess.Token

	w2 := httptest.NewRecorder()
	regenerated, err := manager.Regenerate(ctx, w2, requestWithCookies(w1))
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, regenerated.Token)
	assert.Equal(t, sess.ID, regenerated.ID)
	assert.Equal(t, "hello", regenerated.Data["flash"])

	_, err = manager.Get(ctx, requestWithCookies(w1))
	assert.Error(t, err, "old token must no longer resolve")

	got, err := manager.Get(ctx, requestWithCookies(w2))
	require.NoError(t, err)
	assert.Equal(t, regenerated.Token, got.Token)

	t.Run("without existing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		fresh, err := manager.Regenerate(ctx, w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.Token)
		assert.False(t, fresh.IsAuthenticated())

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "test-sid", cookies[0].Name)
		assert.Zero(t, cookies[0].MaxAge, "session cookie must not outlive the browser session")
		assert.True(t, cookies[0].Expires.IsZero())
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("with invalid cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "test-sid", Value: "garbage"})

		fresh, err := manager.Regenerate(ctx, w, r)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.Token)
		assert.Len(t, w.Result().Cookies(), 1)
	})
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()

	manager := setupManager(t)
	ctx := context.Background()

	_, w1 := newSession(t, manager)

	w2 := httptest.NewRecorder()
	require.NoError(t, manager.Destroy(ctx, w2, requestWithCookies(w1)))

	cleared := w2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	_, err := manager.Get(ctx, requestWithCookies(w1))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_Values(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	manager := setupManager(t, session.WithStore(store))
	ctx := context.Background()

	sess, w := newSession(t, manager)
	anonExpiry := sess.ExpiresAt

	values := manager.Values(sess)

	_, err := values.Get(ctx, session.UserKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.ErrorIs(t, values.Set(ctx, "", "x"), kv.ErrEmptyKey)

	require.NoError(t, values.Set(ctx, session.UserKey, "ann@example.com"))
	require.NoError(t, values.Set(ctx, "userName", "ann"))

	got, err := manager.Get(ctx, requestWithCookies(w))
	require.NoError(t, err)
	assert.True(t, got.IsAuthenticated())
	assert.Equal(t, "ann", got.Data["userName"])
	assert.True(t, got.ExpiresAt.After(anonExpiry), "authenticated sessions use the longer idle timeout")

	_, authenticated, _ := store.Stats()
	assert.Equal(t, 1, authenticated)

	require.NoError(t, values.Delete(ctx, session.UserKey))
	require.NoError(t, values.Delete(ctx, "missing"))

	got, err = manager.Get(ctx, requestWithCookies(w))
	require.NoError(t, err)
	assert.False(t, got.IsAuthenticated())
}

func TestManager_ActivityTracking(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	manager := setupManager(t,
		session.WithStore(store),
		configured(func(c *session.Config) { c.ActivityUpdateThreshold = 0 }),
	)
	ctx := context.Background()

	sess, w := newSession(t, manager)
	first := sess.LastActivityAt

	time.Sleep(5 * time.Millisecond)
	next := manager.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	next.ServeHTTP(httptest.NewRecorder(), requestWithCookies(w))

	assert.Eventually(t, func() bool {
		got, err := store.Get(ctx, sess.Token)
		return err == nil && got.LastActivityAt.After(first)
	}, time.Second, 5*time.Millisecond)
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	manager := setupManager(t)
	assert.NoError(t, manager.Close())
	assert.NoError(t, manager.Close())
}

func TestNew_PanicsWithoutTransport(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { session.New() })
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cookieMgr, err := cookie.New([]string{"test-secret-key-that-is-long-enough-for-aes"})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.LoginPath = "/signin"
	m := session.NewFromConfig(cfg, session.WithCookieManager(cookieMgr))
	t.Cleanup(func() { _ = m.Close() })
	assert.Equal(t, "/signin", m.LoginPath())

	overridden := session.NewFromConfig(cfg,
		session.WithCookieManager(cookieMgr),
		session.WithLoginPath("/account/login"),
	)
	t.Cleanup(func() { _ = overridden.Close() })
	assert.Equal(t, "/account/login", overridden.LoginPath())
}

func TestConfig_GetTimeouts(t *testing.T) {
	t.Parallel()

	cfg := session.DefaultConfig()

	idle, max := cfg.GetTimeouts(false)
	assert.Equal(t, 30*time.Minute, idle)
	assert.Equal(t, 24*time.Hour, max)

	idle, max = cfg.GetTimeouts(true)
	assert.Equal(t, 2*time.Hour, idle)
	assert.Equal(t, 24*time.Hour, max)
	assert.Equal(t, "/login", cfg.LoginPath)
}
