// Package session keeps server-side, browser-session scoped state.
//
// A Manager issues an opaque random token in an encrypted cookie that has
// no Max-Age, so the browser forgets it when the browsing session ends. The
// session record itself lives in a Store: the concurrent MemoryStore, or a
// KVStore over any kv.Store backend (file, Redis, Postgres, S3). Each
// record expires after an idle timeout bounded by a maximum lifetime;
// anonymous and authenticated sessions use separate limits, and a session
// counts as authenticated once its UserKey value is set.
//
// Values adapts one session to kv.Store so code written against kv can
// treat it as session-scoped storage:
//
//	cookies, _ := cookie.New([]string{secret})
//	sessions := session.New(session.WithCookieManager(cookies))
//	defer sessions.Close()
//
//	func login(w http.ResponseWriter, r *http.Request) {
//	    sess, err := sessions.Regenerate(r.Context(), w, r)
//	    if err != nil { ... }
//	    _ = sessions.Values(sess).Set(r.Context(), session.UserKey, email)
//	}
//
// Middleware loads the session into the request context and RequireAuth
// redirects anonymous requests to Config.LoginPath. Activity timestamps are
// written by a background worker that Close drains and stops.
package session
