package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidForm          = errors.New("failed to parse form data")
	ErrInvalidJSON          = errors.New("failed to parse JSON request body")

	// ErrBinderNotApplicable is returned when a binder does not handle the
	// request's content type, so the next binder can be tried.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)
