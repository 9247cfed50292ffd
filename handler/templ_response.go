package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption configures how a component is patched into the page of a
// DataStar request.
type TemplOption = datastar.PatchElementOption

// WithTarget sets the CSS selector the component replaces.
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

// templResponse renders partial over SSE for DataStar requests and full as
// an HTML document otherwise.
type templResponse struct {
	partial templ.Component
	full    templ.Component
	options []TemplOption
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return NewSSE(w, r).PatchElementTempl(t.partial, t.options...)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.full.Render(r.Context(), w)
}

// Templ renders component as a page, or patches it in for DataStar requests.
//
//	return handler.Templ(views.LoginPage(params))
func Templ(component templ.Component, opts ...TemplOption) Response {
	return templResponse{partial: component, full: component, options: opts}
}

// TemplPartial patches partial for DataStar requests and renders full for
// regular ones, so one route serves a form submitted either way.
//
//	return handler.TemplPartial(
//		views.LoginForm(form),
//		views.LoginPage(page),
//		handler.WithTarget("#login-form"),
//	)
func TemplPartial(partial, full templ.Component, opts ...TemplOption) Response {
	return templResponse{partial: partial, full: full, options: opts}
}
