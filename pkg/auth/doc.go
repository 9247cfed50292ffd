// Package auth implements the registration and login flows of the
// dashboard.
//
// Accounts are entries in the credential mapping (pkg/credentials): the
// email is the key and a bcrypt hash of the password is the value. There
// is no user table and no token issuance; a successful login simply
// records the identity in the caller's session-scoped storage.
//
// # Registration
//
// Register validates its input in a fixed order and stops at the first
// failure, leaving the credential mapping untouched:
//
//  1. email is present and well formed
//  2. password has at least MinPasswordLength characters
//  3. password is not longer than bcrypt accepts
//  4. password equals its confirmation
//  5. email is not registered yet
//
// Failures are returned as validator.ValidationErrors joined with a
// sentinel (ErrPasswordTooShort, ErrPasswordMismatch, ErrEmailAlreadyExists,
// ...), so handlers can match the rule with errors.Is and still render the
// per-field message.
//
// # Login
//
//	id, err := svc.Login(ctx, auth.LoginInput{
//	    Email:    "a@x.com",
//	    Password: "secret12",
//	    Remember: true,
//	}, sessionValues, clientStore)
//
// The credential mapping is read fresh on every attempt. Unknown emails
// and wrong passwords both yield ErrInvalidCredentials. On success the
// session receives the "user" (email) and "userName" (local part of the
// email) keys, and with Remember set the email is written under "email"
// in the client's durable storage so the next login form is prefilled.
//
// Login is Authenticate followed by SignIn. HTTP handlers call the two
// separately so the session token is rotated only after the credentials
// check out.
//
// # Hooks
//
// WithAfterRegister and WithAfterLogin run asynchronously after the flow
// has succeeded, with their own timeout. Hook errors and panics are logged
// and never affect the caller.
package auth
