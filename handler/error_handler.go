package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/requestid"
)

// ErrorPageParams is passed to the full-page error view.
type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorToastParams is passed to the toast shown to DataStar requests.
type ErrorToastParams struct {
	Message   string
	Type      string // "warning" for client errors, "error" otherwise
	RequestID string
}

type ErrorHandlerConfig struct {
	ErrorPage  func(ErrorPageParams) templ.Component
	ErrorToast func(ErrorToastParams) templ.Component

	// ToastTarget is the container toasts are prepended to (default "#toast-container").
	ToastTarget string
}

// NewErrorHandler builds the ErrorHandler for server-rendered pages. The
// status and message come from Classify; regular requests get ErrorPage
// (plain text when unset), DataStar requests get ErrorToast.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toast-container"
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		w := ctx.ResponseWriter()
		p := Classify(err)
		reqID := requestid.FromContext(r.Context())

		level := slog.LevelError
		if p.Status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.Component("error_handler"),
			logger.RequestID(reqID),
			logger.Error(err),
			slog.Int("status_code", p.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("is_datastar", IsDataStar(r)),
		)

		var renderErr error
		switch {
		case IsDataStar(r) && cfg.ErrorToast != nil:
			kind := "error"
			if p.Status < http.StatusInternalServerError {
				kind = "warning"
			}
			// SSE streams always start with 200; the toast carries the failure.
			toast := cfg.ErrorToast(ErrorToastParams{Message: p.Message, Type: kind, RequestID: reqID})
			renderErr = Templ(toast, WithTarget(cfg.ToastTarget), WithPatchMode(PatchPrepend)).Render(w, r)
		case cfg.ErrorPage != nil:
			page := cfg.ErrorPage(ErrorPageParams{
				Error:      p.Message,
				StatusCode: p.Status,
				RequestID:  reqID,
				RetryURL:   r.URL.Path,
			})
			renderErr = WithStatus(p.Status, Templ(page)).Render(w, r)
		default:
			http.Error(w, p.Message, p.Status)
		}

		if renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error",
				logger.Component("error_handler"),
				logger.RequestID(reqID),
				logger.Error(renderErr),
			)
		}
	}
}
