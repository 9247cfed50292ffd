// Package requestid tags every request with an ID that is echoed in the
// X-Request-ID response header, stored in the request context and added
// to log records through LogExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LogExtractor()))
//	r.Use(requestid.Middleware)
package requestid
