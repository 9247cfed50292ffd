package session

import (
	"net/http"
)

// Middleware attaches the request's session, when there is a valid one,
// to the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Get(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if m.shouldUpdateActivity(session) {
			m.queueActivityUpdate(session.Token)
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireAuth redirects requests without an authenticated session to the
// login page. It reuses the session Middleware attached, if any.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := FromContext(r.Context())
		if !ok {
			var err error
			if session, err = m.Get(r.Context(), r); err != nil {
				session = nil
			}
		}
		if session == nil || !session.IsAuthenticated() {
			http.Redirect(w, r, m.config.LoginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
