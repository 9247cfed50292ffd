package handler

import (
	"errors"
	"net/http"

	"github.com/kushi-labs/kushi/pkg/binder"
)

// HandlerFunc handles a request already bound into R.
//
//	func (s *PageService) login(ctx handler.Context, req auth.LoginInput) handler.Response {
//		...
//		return handler.Redirect("/dashboard")
//	}
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses an HTTP request into v.
type Bind func(r *http.Request, v any) error

// ErrorHandler answers a request whose binding or rendering failed.
type ErrorHandler func(ctx Context, err error)

// Decorator wraps a HandlerFunc. The first decorator given to Wrap runs first.
type Decorator[R any] func(HandlerFunc[R]) HandlerFunc[R]

type wrapConfig[R any] struct {
	binders      []Bind
	errorHandler ErrorHandler
	decorators   []Decorator[R]
}

// WrapOption configures Wrap.
type WrapOption[R any] func(*wrapConfig[R])

// WithBinders sets request binders, tried in order. Binders returning
// binder.ErrBinderNotApplicable are skipped.
func WithBinders[R any](binders ...Bind) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler replaces the JSON error answer used by default.
func WithErrorHandler[R any](h ErrorHandler) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func WithDecorators[R any](decorators ...Decorator[R]) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// answerJSON is the default ErrorHandler; it suits the JSON APIs.
func answerJSON(ctx Context, err error) {
	if renderErr := JSONError(err).Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
		http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Wrap converts a typed HandlerFunc to an http.HandlerFunc.
//
//	r.Post("/login", handler.Wrap(s.login,
//		handler.WithBinders[auth.LoginInput](binder.Form(), binder.JSON()),
//		handler.WithErrorHandler[auth.LoginInput](s.errorHandler),
//	))
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption[R]) http.HandlerFunc {
	cfg := &wrapConfig[R]{errorHandler: answerJSON}
	for _, opt := range opts {
		opt(cfg)
	}

	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		h = cfg.decorators[i](h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				if errors.Is(err, binder.ErrBinderNotApplicable) {
					continue
				}
				cfg.errorHandler(ctx, errors.Join(ErrBadRequest, err))
				return
			}
		}

		response := h(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
