package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/authctx"
	"github.com/kushi-labs/kushi/pkg/validator"
)

// ErrNilResponse is reported when a HandlerFunc returns nil.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError carries a status code and a machine-readable key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
)

func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

const genericMessage = "An error occurred processing your request"

// Problem is an error as shown to a client.
type Problem struct {
	Status  int
	Code    string
	Message string
	// Fields holds per-field messages for validation failures.
	Fields ValidationError
}

// Classify maps err to the status and message a client sees. Only
// validation failures, credential failures and HTTPErrors reveal anything
// about the cause; everything else is a generic 500.
func Classify(err error) Problem {
	if fields := ValidationErrorFrom(err); fields != nil {
		return Problem{
			Status:  http.StatusUnprocessableEntity,
			Code:    "validation_error",
			Message: fields.summary(),
			Fields:  fields,
		}
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return Problem{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "Invalid credentials"}
	case errors.Is(err, authctx.ErrNotAuthenticated):
		return Problem{Status: http.StatusUnauthorized, Code: ErrUnauthorized.Key, Message: ErrUnauthorized.Key}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return Problem{Status: httpErr.Code, Code: httpErr.Key, Message: httpErr.Key}
	}

	return Problem{Status: http.StatusInternalServerError, Code: "internal_error", Message: genericMessage}
}

// StatusOf is Classify(err).Status.
func StatusOf(err error) int {
	return Classify(err).Status
}

// ValidationErrorFrom collects the field messages carried by err, whether
// it holds a ValidationError or validator.ValidationErrors. It returns nil
// when err has neither.
func ValidationErrorFrom(err error) ValidationError {
	if err == nil {
		return nil
	}
	var fields ValidationError
	if errors.As(err, &fields) {
		return fields
	}
	verrs := validator.ExtractValidationErrors(err)
	if verrs == nil {
		return nil
	}
	out := NewValidationError()
	for _, e := range verrs {
		out.Add(e.Field, e.Message)
	}
	return out
}

func (e ValidationError) summary() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		for _, msg := range e[field] {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	if len(parts) == 0 {
		return "Validation failed"
	}
	return strings.Join(parts, "; ")
}
