package handler

import (
	"net/url"
)

// ValidationError maps form fields to their messages.
type ValidationError url.Values

func (e ValidationError) Error() string {
	return "validation error: " + e.summary()
}

func NewValidationError() ValidationError {
	return make(ValidationError)
}

func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first message for field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}
