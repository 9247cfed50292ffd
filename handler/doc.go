// Package handler adapts typed handlers to net/http and renders their
// responses for both full page loads and DataStar requests.
//
// A HandlerFunc receives a Context and a request value already bound by the
// configured binders:
//
//	r.Post("/register", handler.Wrap(s.register,
//		handler.WithBinders[auth.RegisterInput](binder.Form(), binder.JSON()),
//		handler.WithErrorHandler[auth.RegisterInput](s.errorHandler),
//	))
//
// # Responses
//
//	handler.JSON(v)                      // {"data": v}
//	handler.JSONError(err)               // {"error": {...}} with the status from Classify
//	handler.Templ(page)                  // HTML, or an SSE patch for DataStar
//	handler.TemplPartial(form, page)     // form for DataStar, page otherwise
//	handler.WithStatus(401, resp)        // non-200 status for HTML answers
//	handler.Redirect("/login")           // 303, or an SSE redirect for DataStar
//	handler.Error(err)                   // defer to the ErrorHandler
//
// # Errors
//
// Classify is the single place that maps errors to HTTP: validation
// failures (ValidationError or validator.ValidationErrors) are 422,
// auth.ErrInvalidCredentials and authctx.ErrNotAuthenticated are 401,
// HTTPError keeps its code, anything else is a 500 with a generic message.
package handler
