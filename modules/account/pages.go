package account

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kushi-labs/kushi/handler"
	"github.com/kushi-labs/kushi/modules/layout"
	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/binder"
	"github.com/kushi-labs/kushi/pkg/bootstrap"
	"github.com/kushi-labs/kushi/pkg/cookie"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/session"
)

// PageService serves the server-rendered login, registration, logout and
// theme toggle endpoints.
type PageService struct {
	cfg          Config
	auth         *auth.Service
	sessions     *session.Manager
	cookies      *cookie.Manager
	views        Views
	logger       *slog.Logger
	errorHandler handler.ErrorHandler
}

// PageOption configures a PageService.
type PageOption func(*PageService)

func WithConfig(cfg Config) PageOption {
	return func(s *PageService) {
		s.cfg = cfg
	}
}

func WithViews(v Views) PageOption {
	return func(s *PageService) {
		s.views = v
	}
}

func WithLogger(l *slog.Logger) PageOption {
	return func(s *PageService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithErrorHandler replaces the handler built from the error views.
func WithErrorHandler(h handler.ErrorHandler) PageOption {
	return func(s *PageService) {
		s.errorHandler = h
	}
}

func NewPageService(svc *auth.Service, sessions *session.Manager, cookies *cookie.Manager, opts ...PageOption) *PageService {
	s := &PageService{
		cfg:      DefaultConfig(),
		auth:     svc,
		sessions: sessions,
		cookies:  cookies,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.views = s.views.withDefaults()
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.logger, handler.ErrorHandlerConfig{
			ErrorPage:  s.views.ErrorPage,
			ErrorToast: s.views.ErrorToast,
		})
	}
	return s
}

func (s *PageService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get(s.cfg.LoginPath, handler.Wrap(s.showLogin,
		handler.WithDecorators(guestOnly[struct{}](s)),
		handler.WithErrorHandler[struct{}](s.errorHandler),
	))
	r.Post(s.cfg.LoginPath, handler.Wrap(s.login,
		handler.WithBinders[auth.LoginInput](binder.Form(), binder.JSON()),
		handler.WithErrorHandler[auth.LoginInput](s.errorHandler),
	))

	r.Get("/register", handler.Wrap(s.showRegister,
		handler.WithDecorators(guestOnly[struct{}](s)),
		handler.WithErrorHandler[struct{}](s.errorHandler),
	))
	r.Post("/register", handler.Wrap(s.register,
		handler.WithBinders[auth.RegisterInput](binder.Form(), binder.JSON()),
		handler.WithErrorHandler[auth.RegisterInput](s.errorHandler),
	))

	r.Post("/logout", handler.Wrap(s.logout,
		handler.WithErrorHandler[struct{}](s.errorHandler),
	))
	r.Post(layout.ThemeTogglePath, handler.Wrap(s.toggleTheme,
		handler.WithErrorHandler[struct{}](s.errorHandler),
	))

	return r
}

// guestOnly sends clients that already hold an authenticated session to the
// home page.
func guestOnly[R any](s *PageService) handler.Decorator[R] {
	return func(next handler.HandlerFunc[R]) handler.HandlerFunc[R] {
		return func(ctx handler.Context, req R) handler.Response {
			if s.authenticated(ctx) {
				return handler.Redirect(s.cfg.HomePath)
			}
			return next(ctx, req)
		}
	}
}

func (s *PageService) jar(ctx handler.Context) *cookie.Jar {
	return s.cookies.Jar(ctx.ResponseWriter(), ctx.Request(), s.cfg.JarMaxAge)
}

// page loads the per-page bootstrap state. Storage failures fall back to
// defaults; rendering never fails because of them.
func (s *PageService) page(ctx handler.Context) bootstrap.Page {
	page, err := bootstrap.Load(ctx, s.jar(ctx))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load page state",
			logger.Component("account"),
			logger.Error(err),
		)
	}
	return page
}

func (s *PageService) authenticated(ctx handler.Context) bool {
	if sess, ok := session.FromContext(ctx); ok {
		return sess.IsAuthenticated()
	}
	sess, err := s.sessions.Get(ctx, ctx.Request())
	return err == nil && sess.IsAuthenticated()
}

func (s *PageService) showLogin(ctx handler.Context, _ struct{}) handler.Response {
	page := s.page(ctx)

	var notice string
	if err := s.cookies.GetFlash(ctx.ResponseWriter(), ctx.Request(), noticeFlashKey, &notice); err != nil &&
		!errors.Is(err, cookie.ErrCookieNotFound) {
		s.logger.DebugContext(ctx, "dropping unreadable flash", logger.Component("account"), logger.Error(err))
	}

	return handler.Templ(s.views.LoginPage(LoginPageParams{
		Page: page,
		Form: LoginFormParams{Email: page.RememberedEmail, Notice: notice},
	}))
}

// login verifies the credentials before touching the session, so failed
// attempts leave no session record behind.
func (s *PageService) login(ctx handler.Context, req auth.LoginInput) handler.Response {
	id, err := s.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			return handler.Error(err)
		}
		form := LoginFormParams{Email: req.Email, Error: handler.Classify(err).Message}
		return handler.WithStatus(handler.StatusOf(err), handler.TemplPartial(
			s.views.LoginForm(form),
			s.views.LoginPage(LoginPageParams{Page: s.page(ctx), Form: form}),
			handler.WithTarget("#login-form"),
		))
	}

	sess, err := s.sessions.Regenerate(ctx, ctx.ResponseWriter(), ctx.Request())
	if err != nil {
		return handler.Error(err)
	}
	if err := s.auth.SignIn(ctx, id, req.Remember, s.sessions.Values(sess), s.jar(ctx)); err != nil {
		return handler.Error(err)
	}

	return handler.Redirect(s.cfg.HomePath)
}

func (s *PageService) showRegister(ctx handler.Context, _ struct{}) handler.Response {
	return handler.Templ(s.views.RegisterPage(RegisterPageParams{Page: s.page(ctx)}))
}

func (s *PageService) register(ctx handler.Context, req auth.RegisterInput) handler.Response {
	if err := s.auth.Register(ctx, req); err != nil {
		fields := handler.ValidationErrorFrom(err)
		if fields == nil {
			return handler.Error(err)
		}
		form := RegisterFormParams{Name: req.Name, Email: req.Email, Errors: fields}
		return handler.WithStatus(handler.StatusOf(err), handler.TemplPartial(
			s.views.RegisterForm(form),
			s.views.RegisterPage(RegisterPageParams{Page: s.page(ctx), Form: form}),
			handler.WithTarget("#register-form"),
		))
	}

	if err := s.cookies.SetFlash(ctx.ResponseWriter(), noticeFlashKey, RegisteredNotice); err != nil {
		s.logger.WarnContext(ctx, "failed to set registration notice",
			logger.Component("account"),
			logger.Error(err),
		)
	}
	return handler.Redirect(s.cfg.LoginPath)
}

func (s *PageService) logout(ctx handler.Context, _ struct{}) handler.Response {
	if sess, err := s.sessions.Get(ctx, ctx.Request()); err == nil {
		if err := s.auth.Logout(ctx, s.sessions.Values(sess)); err != nil {
			s.logger.WarnContext(ctx, "failed to clear session user",
				logger.Component("account"),
				logger.Error(err),
			)
		}
	}
	if err := s.sessions.Destroy(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		return handler.Error(err)
	}
	return handler.Redirect(s.cfg.LoginPath)
}

func (s *PageService) toggleTheme(ctx handler.Context, _ struct{}) handler.Response {
	appearance, err := bootstrap.ToggleTheme(ctx, s.jar(ctx))
	if err != nil {
		return handler.Error(err)
	}
	if handler.IsDataStar(ctx.Request()) {
		return themeResponse{appearance: appearance}
	}
	return handler.Redirect(s.back(ctx.Request()))
}

// back returns the same-origin referring path, or the login page. Paths
// that a browser would read as another host ("//host", "/\\host") are refused.
func (s *PageService) back(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || (ref.Host != "" && ref.Host != r.Host) {
		return s.cfg.LoginPath
	}
	if !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") || strings.HasPrefix(ref.Path, "/\\") {
		return s.cfg.LoginPath
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// themeResponse swaps the toggle button and the root class in place.
type themeResponse struct {
	appearance bootstrap.Appearance
}

func (t themeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	sse := handler.NewSSE(w, r)
	if err := sse.PatchElementTempl(layout.ThemeToggle(t.appearance)); err != nil {
		return err
	}
	return sse.ExecuteScript("document.documentElement.className = " + strconv.Quote(t.appearance.RootClass))
}
