package credentials

import "errors"

var (
	ErrDuplicate  = errors.New("credentials: email already present")
	ErrEmptyEmail = errors.New("credentials: empty email")
	ErrCorrupted  = errors.New("credentials: stored mapping is not a valid JSON object")
)
