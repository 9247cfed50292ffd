// Package clientip resolves the address of the client making a request so
// it can be attached to log records.
//
// Proxy headers are only consulted when the deployment declares them
// trusted:
//
//	res := clientip.New("CF-Connecting-IP", "X-Forwarded-For")
//	r.Use(res.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LogExtractor()))
package clientip
