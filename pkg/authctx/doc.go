// Package authctx is the auth context of the single-page dashboard.
//
// A Context tracks one client's authentication state:
//
//	loading ──mount (user stored)──▶ authenticated
//	loading ──mount (no user)──────▶ unauthenticated
//	unauthenticated ──login|register──▶ authenticated
//	authenticated ──login|register──▶ authenticated
//	authenticated ──logout──▶ unauthenticated
//
// The authenticated user is kept as JSON ({"id","name","email"}) under the
// "user" key of the client's durable kv.Store. Mount reads that key once;
// Login, Register and Logout write or remove it as part of the transition,
// so the stored record and the state never disagree.
//
// Login and Register do not verify anything: they build the user from the
// submitted values (Login names the user after the local part of the email)
// and always succeed unless storage fails. This is the seam where a real
// identity backend would attach.
//
// Guard turns the state into a routing decision: Wait while loading, Render
// when authenticated, Redirect otherwise. Middleware applies it to HTTP
// routes.
package authctx
