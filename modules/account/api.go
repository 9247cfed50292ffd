package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushi-labs/kushi/handler"
	"github.com/kushi-labs/kushi/pkg/authctx"
	"github.com/kushi-labs/kushi/pkg/binder"
	"github.com/kushi-labs/kushi/pkg/cookie"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/logger"
)

// SessionResponse describes the SPA auth context of the calling client.
type SessionResponse struct {
	State         string        `json:"state"`
	Authenticated bool          `json:"authenticated"`
	User          *authctx.User `json:"user,omitempty"`
}

// LoginRequest is the SPA login payload.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RegisterRequest is the SPA registration payload.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthResponse is returned by the SPA login and register endpoints.
type AuthResponse struct {
	authctx.Result
	Session SessionResponse `json:"session"`
}

// APIService exposes the SPA auth context over JSON. The client's user
// record lives in its cookie jar.
type APIService struct {
	cookies   *cookie.Manager
	jarMaxAge int
	logger    *slog.Logger
	ctxOpts   []authctx.Option
}

// APIOption configures an APIService.
type APIOption func(*APIService)

func WithAPILogger(l *slog.Logger) APIOption {
	return func(s *APIService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJarMaxAge sets the lifetime in seconds of the stored user cookie.
func WithJarMaxAge(seconds int) APIOption {
	return func(s *APIService) {
		s.jarMaxAge = seconds
	}
}

// WithContextOptions passes options to every mounted authctx.Context.
func WithContextOptions(opts ...authctx.Option) APIOption {
	return func(s *APIService) {
		s.ctxOpts = append(s.ctxOpts, opts...)
	}
}

func NewAPIService(cookies *cookie.Manager, opts ...APIOption) *APIService {
	s := &APIService{
		cookies: cookies,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store resolves the durable storage of the client making r.
func (s *APIService) Store(w http.ResponseWriter, r *http.Request) kv.Store {
	return s.cookies.Jar(w, r, s.jarMaxAge)
}

// Middleware mounts the auth context of every request. Other modules use it
// together with authctx.Require to guard their APIs.
func (s *APIService) Middleware() func(http.Handler) http.Handler {
	opts := append([]authctx.Option{authctx.WithLogger(s.logger)}, s.ctxOpts...)
	return authctx.Middleware(s.Store, opts...)
}

// Deny answers guarded API requests made without an authenticated context.
func Deny(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(authctx.ErrNotAuthenticated).Render(w, r)
}

func (s *APIService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(s.Middleware())

	r.Get("/session", handler.Wrap(s.session))
	r.Post("/login", handler.Wrap(s.login,
		handler.WithBinders[LoginRequest](binder.JSON(), binder.Form()),
	))
	r.Post("/register", handler.Wrap(s.register,
		handler.WithBinders[RegisterRequest](binder.JSON(), binder.Form()),
	))
	r.Post("/logout", handler.Wrap(s.logout))

	return r
}

func describe(c *authctx.Context) SessionResponse {
	resp := SessionResponse{
		State:         c.State().Name(),
		Authenticated: c.IsAuthenticated(),
	}
	if u, ok := c.User(); ok {
		resp.User = &u
	}
	return resp
}

func current(ctx handler.Context) (*authctx.Context, bool) {
	return authctx.FromContext(ctx.Request().Context())
}

func (s *APIService) session(ctx handler.Context, _ struct{}) handler.Response {
	c, ok := current(ctx)
	if !ok {
		return handler.JSONError(handler.ErrInternalServerError)
	}
	return handler.JSON(describe(c))
}

func (s *APIService) login(ctx handler.Context, req LoginRequest) handler.Response {
	c, ok := current(ctx)
	if !ok {
		return handler.JSONError(handler.ErrInternalServerError)
	}
	return s.result(c.Login(ctx, req.Email, req.Password), c)
}

func (s *APIService) register(ctx handler.Context, req RegisterRequest) handler.Response {
	c, ok := current(ctx)
	if !ok {
		return handler.JSONError(handler.ErrInternalServerError)
	}
	return s.result(c.Register(ctx, req.Name, req.Email, req.Password), c)
}

func (s *APIService) result(res authctx.Result, c *authctx.Context) handler.Response {
	body := AuthResponse{Result: res, Session: describe(c)}
	if !res.Success {
		return handler.JSON(body, handler.WithJSONStatus(http.StatusInternalServerError))
	}
	return handler.JSON(body)
}

func (s *APIService) logout(ctx handler.Context, _ struct{}) handler.Response {
	c, ok := current(ctx)
	if !ok {
		return handler.JSONError(handler.ErrInternalServerError)
	}
	if err := c.Logout(ctx); err != nil {
		s.logger.ErrorContext(ctx, "logout failed", logger.Component("account"), logger.Error(err))
		return handler.JSONError(handler.ErrInternalServerError)
	}
	return handler.JSON(describe(c))
}
