package authctx

import (
	"context"
	"net/http"

	"github.com/kushi-labs/kushi/pkg/kv"
)

// Decision is what a protected view should do for the current state.
type Decision int

const (
	Wait Decision = iota
	Render
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Render:
		return "render"
	default:
		return "redirect"
	}
}

// Guard maps the auth state to a routing decision.
func (c *Context) Guard() Decision {
	switch {
	case c.IsLoading():
		return Wait
	case c.IsAuthenticated():
		return Render
	default:
		return Redirect
	}
}

type ctxKey struct{}

// WithContext stores c in ctx.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the Context stored by Middleware.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Context)
	return c, ok
}

// StoreFunc resolves the durable storage of the client making r.
type StoreFunc func(w http.ResponseWriter, r *http.Request) kv.Store

// Middleware mounts a Context for every request and stores it in the
// request context. It never blocks a request; use Require for that.
func Middleware(store StoreFunc, opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := Load(r.Context(), store(w, r), opts...)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), c)))
		})
	}
}

// Require lets the request through only when Guard says Render. Otherwise
// it calls deny, which decides between a redirect and an API error.
func Require(deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := FromContext(r.Context())
			if !ok || c.Guard() != Render {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
