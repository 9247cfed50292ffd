package authctx

import "errors"

var (
	ErrNotAuthenticated = errors.New("authctx: not authenticated")
	ErrPersist          = errors.New("authctx: failed to persist user")
)
