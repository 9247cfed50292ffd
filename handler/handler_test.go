package handler_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushi-labs/kushi/handler"
	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/authctx"
	"github.com/kushi-labs/kushi/pkg/binder"
	"github.com/kushi-labs/kushi/pkg/validator"
)

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func html(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestWrap(t *testing.T) {
	t.Parallel()

	echo := func(ctx handler.Context, req loginRequest) handler.Response {
		return handler.JSON(req)
	}

	t.Run("binds form values", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo,
			handler.WithBinders[loginRequest](binder.Form(), binder.JSON()),
		)

		w := httptest.NewRecorder()
		h(w, formRequest(url.Values{"email": {"a@b.co"}, "password": {"secret"}}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"email":"a@b.co","password":"secret"}}`, w.Body.String())
	})

	t.Run("skips binders that do not apply", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo,
			handler.WithBinders[loginRequest](binder.Form(), binder.JSON()),
		)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"x@y.z"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"x@y.z"`)
	})

	t.Run("binder failure is a bad request", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.Wrap(echo,
			handler.WithBinders[loginRequest](binder.JSON()),
			handler.WithErrorHandler[loginRequest](func(ctx handler.Context, err error) {
				got = err
				http.Error(ctx.ResponseWriter(), "bad", http.StatusBadRequest)
			}),
		)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{broken`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.Error(t, got)
		assert.ErrorIs(t, got, handler.ErrBadRequest)
		assert.ErrorIs(t, got, binder.ErrInvalidJSON)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req loginRequest) handler.Response {
			return nil
		})

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":{"code":"internal_error","message":"An error occurred processing your request"}}`, w.Body.String())
	})

	t.Run("http error from render", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req loginRequest) handler.Response {
			return failing{err: handler.ErrNotFound}
		})

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"not_found"`)
	})

	t.Run("binder failure answers json by default", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo, handler.WithBinders[loginRequest](binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{broken`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"bad_request"`)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()

		var order []string
		mark := func(name string) handler.Decorator[loginRequest] {
			return func(next handler.HandlerFunc[loginRequest]) handler.HandlerFunc[loginRequest] {
				return func(ctx handler.Context, req loginRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}

		h := handler.Wrap(func(ctx handler.Context, req loginRequest) handler.Response {
			order = append(order, "handler")
			return handler.Redirect("/dashboard")
		}, handler.WithDecorators(mark("outer"), mark("inner")))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})

	t.Run("context exposes request values", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		h := handler.Wrap(func(ctx handler.Context, req loginRequest) handler.Response {
			v, _ := ctx.Value(key{}).(string)
			return handler.JSON(map[string]string{"value": v, "path": ctx.Request().URL.Path})
		})

		req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
		req = req.WithContext(context.WithValue(req.Context(), key{}, "ok"))
		w := httptest.NewRecorder()
		h(w, req)

		assert.JSONEq(t, `{"data":{"value":"ok","path":"/ctx"}}`, w.Body.String())
	})
}

type failing struct{ err error }

func (f failing) Render(http.ResponseWriter, *http.Request) error { return f.err }

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"internal details stay hidden", errors.New("dial tcp 10.0.0.1: refused"), http.StatusInternalServerError, "internal_error", "An error occurred processing your request"},
		{"http error", handler.ErrNotFound, http.StatusNotFound, "not_found", "not_found"},
		{"wrapped http error", errors.Join(errors.New("ctx"), handler.ErrConflict), http.StatusConflict, "conflict", "conflict"},
		{"invalid credentials", fmt.Errorf("login: %w", auth.ErrInvalidCredentials), http.StatusUnauthorized, "invalid_credentials", "Invalid credentials"},
		{"not authenticated", authctx.ErrNotAuthenticated, http.StatusUnauthorized, "unauthorized", "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			require.NoError(t, handler.JSONError(tt.err).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"error":{"code":"`+tt.code+`","message":"`+tt.message+`"}}`, w.Body.String())
		})
	}

	t.Run("handler validation error", func(t *testing.T) {
		t.Parallel()

		verr := handler.NewValidationError()
		verr.Add("password", "Password must be at least 8 characters")

		w := httptest.NewRecorder()
		require.NoError(t, handler.JSONError(verr).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"validation_error"`)
		assert.Contains(t, w.Body.String(), `"password":["Password must be at least 8 characters"]`)
	})

	t.Run("validator errors joined with a sentinel", func(t *testing.T) {
		t.Parallel()

		err := errors.Join(auth.ErrPasswordMismatch, validator.Single("confirm_password", "Passwords do not match", "k"))

		w := httptest.NewRecorder()
		require.NoError(t, handler.JSONError(err).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"confirm_password":["Passwords do not match"]`)
		assert.Contains(t, w.Body.String(), `"message":"confirm_password: Passwords do not match"`)
	})

	t.Run("status option wins", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		resp := handler.JSON(map[string]int{"n": 1}, handler.WithJSONStatus(http.StatusCreated))
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"data":{"n":1}}`, w.Body.String())
	})
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusUnauthorized, handler.StatusOf(auth.ErrInvalidCredentials))
	assert.Equal(t, http.StatusUnprocessableEntity, handler.StatusOf(errors.Join(auth.ErrPasswordTooShort, validator.Single("password", "short", "k"))))
	assert.Equal(t, http.StatusBadRequest, handler.StatusOf(errors.Join(handler.ErrBadRequest, binder.ErrInvalidJSON)))
	assert.Equal(t, http.StatusInternalServerError, handler.StatusOf(errors.New("boom")))
}

func TestValidationErrorFrom(t *testing.T) {
	t.Parallel()

	assert.Nil(t, handler.ValidationErrorFrom(nil))
	assert.Nil(t, handler.ValidationErrorFrom(auth.ErrInvalidCredentials))

	got := handler.ValidationErrorFrom(errors.Join(auth.ErrEmailAlreadyExists,
		validator.Single("email", "Email already registered", "auth.email_taken")))
	assert.Equal(t, "Email already registered", got.Get("email"))
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	verr := handler.NewValidationError()
	assert.Equal(t, "validation error: Validation failed", verr.Error())

	verr.Add("password", "Passwords do not match")
	verr.Add("email", "Email already registered")
	verr.Add("email", "second")

	assert.True(t, verr.Has("email"))
	assert.False(t, verr.Has("name"))
	assert.Equal(t, "Email already registered", verr.Get("email"))
	assert.Equal(t, "validation error: email: Email already registered; email: second; password: Passwords do not match", verr.Error())

	var target handler.ValidationError
	assert.True(t, errors.As(errors.Join(errors.New("outer"), verr), &target))
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("regular", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, handler.Redirect("/login").Render(w, httptest.NewRequest(http.MethodPost, "/register", nil)))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("datastar", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.Header.Set("Accept", "text/event-stream")
		w := httptest.NewRecorder()
		require.NoError(t, handler.Redirect("/login").Render(w, req))

		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "datastar-patch-elements")
		assert.Contains(t, w.Body.String(), "/login")
	})
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		header map[string]string
		want   bool
	}{
		{"plain", "/", nil, false},
		{"accept header", "/", map[string]string{"Accept": "text/html, text/event-stream"}, true},
		{"query param", "/?datastar=%7B%7D", nil, true},
		{"content type", "/", map[string]string{"Content-Type": "application/x-datastar"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, handler.IsDataStar(req))
		})
	}
}

func TestTempl(t *testing.T) {
	t.Parallel()

	t.Run("regular request renders html", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, handler.Templ(html(`<p>hi</p>`)).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `<p>hi</p>`, w.Body.String())
	})

	t.Run("datastar request patches element", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "text/event-stream")
		w := httptest.NewRecorder()
		resp := handler.Templ(html(`<p id="x">hi</p>`), handler.WithTarget("#x"), handler.WithPatchMode(handler.PatchInner))
		require.NoError(t, resp.Render(w, req))

		body := w.Body.String()
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, "#x")
		assert.Contains(t, body, "hi</p>")
	})

	t.Run("partial versus full", func(t *testing.T) {
		t.Parallel()

		resp := handler.TemplPartial(html(`<form>partial</form>`), html(`<html>full</html>`))

		w := httptest.NewRecorder()
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, `<html>full</html>`, w.Body.String())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "text/event-stream")
		w = httptest.NewRecorder()
		require.NoError(t, resp.Render(w, req))
		assert.Contains(t, w.Body.String(), "partial")
		assert.NotContains(t, w.Body.String(), "full")
	})

	t.Run("component error surfaces", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		comp := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })

		w := httptest.NewRecorder()
		err := handler.Templ(comp).Render(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, boom)
	})
}

func TestWithStatus(t *testing.T) {
	t.Parallel()

	resp := handler.WithStatus(http.StatusUnauthorized, handler.Templ(html(`<form>retry</form>`)))

	w := httptest.NewRecorder()
	require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodPost, "/login", nil)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `<form>retry</form>`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Accept", "text/event-stream")
	w = httptest.NewRecorder()
	require.NoError(t, resp.Render(w, req))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "datastar-patch-elements")
}
