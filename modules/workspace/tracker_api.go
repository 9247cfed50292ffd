package workspace

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kushi-labs/kushi/handler"
	"github.com/kushi-labs/kushi/pkg/authctx"
	"github.com/kushi-labs/kushi/pkg/binder"
	"github.com/kushi-labs/kushi/pkg/logger"
)

// trackerRoutes serves the project tracker under /tracker.
func (s *Service) trackerRoutes(r chi.Router) {
	r.Get("/timeline", handler.Wrap(s.listPhases))
	r.Post("/timeline", handler.Wrap(s.addPhase,
		handler.WithBinders[Phase](binder.JSON(), binder.Form()),
	))

	r.Get("/raise-requests", handler.Wrap(s.listRaiseRequests))
	r.Post("/raise-requests", handler.Wrap(s.raise,
		handler.WithBinders[RaiseInput](binder.JSON(), binder.Form()),
	))
	r.Post("/raise-requests/{index}/approve", handler.Wrap(s.approveRaise))

	r.Get("/review-requests", handler.Wrap(s.listReviewRequests))
	r.Post("/review-requests", handler.Wrap(s.requestReview,
		handler.WithBinders[ReviewInput](binder.JSON(), binder.Form()),
	))
	r.Post("/review-requests/{index}/approve", handler.Wrap(s.approveReview))

	r.Get("/commits", handler.Wrap(s.listCommits))
	r.Post("/commits", handler.Wrap(s.addCommit,
		handler.WithBinders[CommitInput](binder.JSON(), binder.Form()),
	))
}

func created(v any) handler.Response {
	return handler.JSON(v, handler.WithJSONStatus(http.StatusCreated))
}

// failed answers a tracker error. An unknown index is a 404; storage
// failures are logged and hidden behind a generic 500.
func (s *Service) failed(ctx handler.Context, err error) handler.Response {
	if errors.Is(err, ErrRequestNotFound) {
		return handler.JSONError(handler.ErrNotFound)
	}
	if handler.StatusOf(err) >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx, "tracker request failed",
			logger.Component("workspace"),
			logger.Error(err),
		)
	}
	return handler.JSONError(err)
}

// user returns the signed-in SPA user. The guards guarantee one exists.
func user(ctx handler.Context) (authctx.User, error) {
	c, ok := authctx.FromContext(ctx)
	if !ok {
		return authctx.User{}, authctx.ErrNotAuthenticated
	}
	return c.CurrentUser()
}

func index(ctx handler.Context) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(ctx.Request(), "index"))
	if err != nil {
		return 0, ErrRequestNotFound
	}
	return i, nil
}

func (s *Service) listPhases(ctx handler.Context, _ struct{}) handler.Response {
	phases, err := s.tracker.Phases(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	return handler.JSON(phases)
}

func (s *Service) addPhase(ctx handler.Context, req Phase) handler.Response {
	p, err := s.tracker.AddPhase(ctx, req)
	if err != nil {
		return s.failed(ctx, err)
	}
	return created(p)
}

func (s *Service) listRaiseRequests(ctx handler.Context, _ struct{}) handler.Response {
	reqs, err := s.tracker.RaiseRequests(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	return handler.JSON(reqs)
}

func (s *Service) raise(ctx handler.Context, req RaiseInput) handler.Response {
	u, err := user(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	r, err := s.tracker.Raise(ctx, req, u.Email)
	if err != nil {
		return s.failed(ctx, err)
	}
	return created(r)
}

func (s *Service) approveRaise(ctx handler.Context, _ struct{}) handler.Response {
	i, err := index(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	r, err := s.tracker.ApproveRaise(ctx, i)
	if err != nil {
		return s.failed(ctx, err)
	}
	return handler.JSON(r)
}

func (s *Service) listReviewRequests(ctx handler.Context, _ struct{}) handler.Response {
	reqs, err := s.tracker.ReviewRequests(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	return handler.JSON(reqs)
}

func (s *Service) requestReview(ctx handler.Context, req ReviewInput) handler.Response {
	r, err := s.tracker.RequestReview(ctx, req)
	if err != nil {
		return s.failed(ctx, err)
	}
	return created(r)
}

// approveReview takes the reviewer's comments from the comments query
// parameter.
func (s *Service) approveReview(ctx handler.Context, _ struct{}) handler.Response {
	i, err := index(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	r, err := s.tracker.ApproveReview(ctx, i, ctx.Request().URL.Query().Get("comments"))
	if err != nil {
		return s.failed(ctx, err)
	}
	return handler.JSON(r)
}

func (s *Service) listCommits(ctx handler.Context, _ struct{}) handler.Response {
	commits, err := s.tracker.Commits(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	return handler.JSON(commits)
}

// addCommit credits the signed-in user when no author is given.
func (s *Service) addCommit(ctx handler.Context, req CommitInput) handler.Response {
	u, err := user(ctx)
	if err != nil {
		return s.failed(ctx, err)
	}
	c, err := s.tracker.AddCommit(ctx, req, u.Name)
	if err != nil {
		return s.failed(ctx, err)
	}
	return created(c)
}
