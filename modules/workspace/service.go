package workspace

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushi-labs/kushi/handler"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/logger"
)

// Service serves the workspace data to the dashboard and the SPA.
type Service struct {
	data       *Data
	tracker    *Tracker
	logger     *slog.Logger
	appearance AppearanceFunc
	guards     []func(http.Handler) http.Handler
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAppearance sets how the dashboard resolves the client's theme.
func WithAppearance(fn AppearanceFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.appearance = fn
		}
	}
}

// WithStore persists the project tracker in store. Without it the tracker
// lives in memory.
func WithStore(store kv.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.tracker = NewTracker(store)
		}
	}
}

// WithGuards protects the JSON API, outermost first.
//
//	workspace.WithGuards(api.Middleware(), authctx.Require(account.Deny))
func WithGuards(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Service) {
		s.guards = append(s.guards, mw...)
	}
}

func NewService(data *Data, opts ...Option) *Service {
	s := &Service{
		data:       data,
		logger:     logger.Discard(),
		appearance: defaultAppearance,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = NewTracker(kv.NewMemoryStore())
	}
	return s
}

// Handle returns the JSON API, meant to be mounted at /api/workspace.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(s.guards...)

	r.Get("/nav", handler.Wrap(s.nav))
	r.Get("/logs", handler.Wrap(s.logs))
	r.Get("/timeline", handler.Wrap(s.timeline))
	r.Get("/commits", handler.Wrap(s.commits))
	r.Get("/files", handler.Wrap(s.files))
	r.Get("/files/{name}", handler.Wrap(s.file))
	r.Route("/tracker", s.trackerRoutes)

	return r
}

func (s *Service) nav(handler.Context, struct{}) handler.Response {
	return handler.JSON(s.data.Nav)
}

func (s *Service) logs(handler.Context, struct{}) handler.Response {
	return handler.JSON(s.data.Logs)
}

func (s *Service) timeline(handler.Context, struct{}) handler.Response {
	return handler.JSON(s.data.Timeline)
}

func (s *Service) commits(handler.Context, struct{}) handler.Response {
	return handler.JSON(s.data.Commits)
}

func (s *Service) files(handler.Context, struct{}) handler.Response {
	return handler.JSON(s.data.FileNames())
}

// file answers 404 for an unknown snippet and logs it; nothing else happens.
func (s *Service) file(ctx handler.Context, _ struct{}) handler.Response {
	name := chi.URLParam(ctx.Request(), "name")
	f, ok := s.data.File(name)
	if !ok {
		s.logger.WarnContext(ctx, "snippet not found",
			logger.Component("workspace"),
			logger.Resource(name),
			logger.Error(ErrFileNotFound),
		)
		return handler.JSONError(handler.ErrNotFound)
	}
	return handler.JSON(f)
}
