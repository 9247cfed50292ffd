package handler

import "net/http"

type statusResponse struct {
	status int
	next   Response
}

// Render writes the status before the wrapped body. DataStar requests are
// answered over SSE, which always starts with 200, so the status is skipped.
func (s statusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(s.status)
	}
	return s.next.Render(w, r)
}

// WithStatus renders an HTML response with a non-200 status, e.g. a form
// re-rendered after a failed submission.
//
//	return handler.WithStatus(http.StatusUnprocessableEntity,
//		handler.TemplPartial(form, page, handler.WithTarget("#register-form")))
func WithStatus(status int, resp Response) Response {
	return statusResponse{status: status, next: resp}
}
