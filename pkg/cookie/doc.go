// Package cookie manages HTTP cookies with HMAC signing, AES-GCM
// encryption and one-shot flash values.
//
// Manager is created with one or more secrets of at least 32 characters.
// The first secret writes; all of them are accepted on read, which allows
// key rotation.
//
//	man, err := cookie.New([]string{secret})
//	_ = man.SetSigned(w, "theme", "dark", cookie.WithMaxAge(3600))
//	v, err := man.GetSigned(r, "theme")
//
// Flash values survive exactly one redirect:
//
//	_ = man.SetFlash(w, "notice", "Account created! Redirecting to login...")
//	var notice string
//	_ = man.GetFlash(w, r, "notice", &notice)
//
// # Jar
//
// Jar adapts a request/response pair to kv.Store, which is how the
// per-client durable storage (theme, remembered email, SPA user) is
// provided to the flows:
//
//	durable := man.Jar(w, r, cfg.JarMaxAge)
//	page, err := bootstrap.Load(ctx, durable)
//
// Sentinel errors (ErrCookieNotFound, ErrInvalidSignature,
// ErrDecryptionFailed, ...) can be matched with errors.Is.
package cookie
