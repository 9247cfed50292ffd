// Package account serves the sign-in surface of kushi.
//
// PageService renders the login and registration pages, runs the flows of
// pkg/auth against the request's server-side session and cookie jar, logs
// users out and toggles the theme. APIService exposes the SPA auth context
// of pkg/authctx as JSON under /api/auth. Router mounts both:
//
//	r.Mount("/", account.Router(account.RouterOptions{
//		Pages: account.NewPageService(authSvc, sessions, cookies,
//			account.WithConfig(cfg.Account),
//			account.WithLogger(log),
//		),
//		API: account.NewAPIService(cookies, account.WithAPILogger(log)),
//	}))
//
// Pages are plain HTML forms enhanced with datastar: a datastar submit
// receives SSE patches for the form, a regular submit gets full pages and
// redirects.
package account
