// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests within the shutdown timeout and runs the stop
// hooks registered with WithStopHook:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStopHook(func(context.Context) error { return sessions.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler reports named dependency checks as JSON for /healthz.
package httpserver
