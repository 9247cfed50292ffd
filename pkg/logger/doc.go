// Package logger builds the service's *slog.Logger.
//
// New takes functional options for format, level, output, static
// attributes and context extractors. The returned logger wraps its handler
// with LogHandlerDecorator, which appends request-scoped values (such as
// the request ID set by pkg/requestid) on every call that passes a context.
//
//	log := logger.NewFromConfig(cfg.Log, cfg.Env, "kushi",
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	log.InfoContext(ctx, "user logged in",
//	    logger.Component("auth"),
//	    logger.Email(email),
//	)
//
// Attribute helpers in attr.go keep key names consistent. Email masks the
// local part so account addresses never reach the logs in full.
//
// Services in this module accept a logger through an option and fall back
// to Discard.
package logger
