package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushi-labs/kushi/pkg/cookie"
)

const (
	secret    = "this-is-a-very-long-secret-key-32-chars-long"
	oldSecret = "this-is-old-very-long-secret-key-32-chars-ok"
)

func newManager(t *testing.T, secrets ...string) *cookie.Manager {
	t.Helper()
	if len(secrets) == 0 {
		secrets = []string{secret}
	}
	m, err := cookie.New(secrets)
	require.NoError(t, err)
	return m
}

// replay copies the cookies set on rec into a new request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secrets []string
		wantErr error
	}{
		{"no secrets", nil, cookie.ErrNoSecret},
		{"empty secrets", []string{"", ""}, cookie.ErrNoSecret},
		{"secret too short", []string{"short"}, cookie.ErrSecretTooShort},
		{"valid secret", []string{secret}, nil},
		{"rotation", []string{secret, oldSecret}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cookie.New(tt.secrets)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestManager_PlainCookies(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "plain", "v", cookie.WithMaxAge(60)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 60, cookies[0].MaxAge)

	v, err := m.Get(replay(rec), "plain")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "plain")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(rec, "theme", "dark"))

	v, err := m.GetSigned(replay(rec), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	t.Run("tampered value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		signed := rec.Result().Cookies()[0].Value
		_, sig, _ := strings.Cut(signed, "|")
		r.AddCookie(&http.Cookie{Name: "theme", Value: "bGlnaHQ=|" + sig})
		_, err := m.GetSigned(r, "theme")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("malformed value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
		_, err := m.GetSigned(r, "theme")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("old secret still verifies", func(t *testing.T) {
		old := newManager(t, oldSecret)
		rotated := newManager(t, secret, oldSecret)
		rec := httptest.NewRecorder()
		require.NoError(t, old.SetSigned(rec, "theme", "light"))

		v, err := rotated.GetSigned(replay(rec), "theme")
		require.NoError(t, err)
		assert.Equal(t, "light", v)
	})
}

func TestManager_Encrypted(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetEncrypted(rec, "sid", "token-123"))
	assert.NotContains(t, rec.Result().Cookies()[0].Value, "token-123")

	v, err := m.GetEncrypted(replay(rec), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-123", v)

	other := newManager(t, oldSecret)
	_, err = other.GetEncrypted(replay(rec), "sid")
	assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
}

func TestManager_Flash(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetFlash(rec, "notice", "Account created! Redirecting to login..."))

	read := httptest.NewRecorder()
	var notice string
	require.NoError(t, m.GetFlash(read, replay(rec), "notice", &notice))
	assert.Equal(t, "Account created! Redirecting to login...", notice)

	deleted := read.Result().Cookies()
	require.Len(t, deleted, 1)
	assert.Equal(t, -1, deleted[0].MaxAge)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	m.Delete(rec, "theme")

	c := rec.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "theme", c[0].Name)
	assert.Equal(t, -1, c[0].MaxAge)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{
		Secrets:  " " + secret + " , " + oldSecret,
		Path:     "/app",
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "x", "y"))
	c := rec.Result().Cookies()[0]
	assert.Equal(t, "/app", c.Path)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	_, err = cookie.NewFromConfig(cookie.Config{})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)
}
