package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services the account module mounts.
// Each one is optional.
type RouterOptions struct {
	// Pages serves /login, /register, /logout and /theme/toggle.
	Pages Mountable
	// API serves the SPA auth context under /api/auth.
	API Mountable
}

// Router mounts the configured account services.
//
//	r.Mount("/", account.Router(account.RouterOptions{
//		Pages: account.NewPageService(authSvc, sessions, cookies),
//		API:   account.NewAPIService(cookies),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.API != nil {
		r.Mount("/api/auth", opts.API.Handle())
	}
	if opts.Pages != nil {
		r.Mount("/", opts.Pages.Handle())
	}

	return r
}
