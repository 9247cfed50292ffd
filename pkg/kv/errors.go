package kv

import "errors"

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("kv: key not found")

	// ErrMalformed is returned by GetJSON when the stored value cannot be decoded.
	ErrMalformed = errors.New("kv: malformed value")

	// ErrEmptyKey is returned when an operation receives an empty key.
	ErrEmptyKey = errors.New("kv: empty key")

	// ErrUnknownDriver is returned for an unsupported Config.Driver value.
	ErrUnknownDriver = errors.New("kv: unknown driver")

	ErrHealthcheckFailed = errors.New("kv: healthcheck failed")
)
