package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushi-labs/kushi/pkg/binder"
)

type loginRequest struct {
	Email    string   `json:"email" form:"email"`
	Password string   `json:"password" form:"password"`
	Remember bool     `json:"remember" form:"remember"`
	Attempts *int     `json:"attempts,omitempty" form:"attempts"`
	Tags     []string `json:"tags,omitempty" form:"tags"`
	Internal string   `json:"-" form:"-"`
}

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestForm(t *testing.T) {
	t.Parallel()

	bind := binder.Form()

	t.Run("urlencoded", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := bind(formRequest(url.Values{
			"email":    {"ann@example.com"},
			"password": {" pass, word "},
			"remember": {"on"},
			"attempts": {"3"},
			"tags":     {"a,b", "c"},
			"Internal": {"x"},
		}), &req)
		require.NoError(t, err)

		assert.Equal(t, "ann@example.com", req.Email)
		assert.Equal(t, " pass, word ", req.Password, "strings are bound verbatim")
		assert.True(t, req.Remember)
		require.NotNil(t, req.Attempts)
		assert.Equal(t, 3, *req.Attempts)
		assert.Equal(t, []string{"a", "b", "c"}, req.Tags)
		assert.Empty(t, req.Internal)
	})

	t.Run("unchecked checkbox leaves false", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		require.NoError(t, bind(formRequest(url.Values{"email": {"a@b.co"}}), &req))
		assert.False(t, req.Remember)
		assert.Nil(t, req.Attempts)
	})

	t.Run("multipart", func(t *testing.T) {
		t.Parallel()

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("email", "ann@example.com"))
		require.NoError(t, mw.WriteField("remember", "true"))
		require.NoError(t, mw.Close())

		r := httptest.NewRequest(http.MethodPost, "/login", &body)
		r.Header.Set("Content-Type", mw.FormDataContentType())

		var req loginRequest
		require.NoError(t, bind(r, &req))
		assert.Equal(t, "ann@example.com", req.Email)
		assert.True(t, req.Remember)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := bind(formRequest(url.Values{"attempts": {"many"}}), &req)
		assert.ErrorIs(t, err, binder.ErrInvalidForm)
	})

	t.Run("not applicable", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		assert.ErrorIs(t, bind(httptest.NewRequest(http.MethodGet, "/login", nil), &req), binder.ErrBinderNotApplicable)

		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "application/json")
		assert.ErrorIs(t, bind(r, &req), binder.ErrBinderNotApplicable)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=x"))
		assert.ErrorIs(t, bind(r, &req), binder.ErrMissingContentType)
	})

	t.Run("non pointer target", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, bind(formRequest(url.Values{}), loginRequest{}), binder.ErrInvalidForm)
	})
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	bind := binder.JSON()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		require.NoError(t, bind(jsonRequest(`{"email":"ann@example.com","password":"  secret  ","remember":true}`), &req))
		assert.Equal(t, "ann@example.com", req.Email)
		assert.Equal(t, "  secret  ", req.Password)
		assert.True(t, req.Remember)
	})

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"empty body", ``, binder.ErrInvalidJSON},
		{"malformed", `{"email":`, binder.ErrInvalidJSON},
		{"unknown field", `{"email":"a@b.co","admin":true}`, binder.ErrInvalidJSON},
		{"trailing data", `{"email":"a@b.co"}{}`, binder.ErrInvalidJSON},
		{"wrong type", `{"remember":"yes"}`, binder.ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req loginRequest
			assert.ErrorIs(t, bind(jsonRequest(tt.body), &req), tt.wantErr)
		})
	}

	t.Run("too large", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		body := `{"email":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`
		assert.ErrorIs(t, bind(jsonRequest(body), &req), binder.ErrInvalidJSON)
	})

	t.Run("not applicable", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		assert.ErrorIs(t, bind(formRequest(url.Values{"email": {"x"}}), &req), binder.ErrBinderNotApplicable)
		assert.ErrorIs(t, bind(httptest.NewRequest(http.MethodGet, "/", nil), &req), binder.ErrBinderNotApplicable)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		assert.ErrorIs(t, bind(r, &req), binder.ErrMissingContentType)
	})
}
