package handler

import (
	"encoding/json"
	"net/http"
)

// JSONBody is the envelope of every JSON answer: data on success, error
// otherwise.
type JSONBody struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONBody
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON answer.
type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON answers 200 with v as data.
//
//	return handler.JSON(item, handler.WithJSONStatus(http.StatusCreated))
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONBody{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError answers with the status and message Classify picks for err.
func JSONError(err error, opts ...JSONOption) Response {
	p := Classify(err)
	detail := &ErrorDetail{Code: p.Code, Message: p.Message}
	if len(p.Fields) > 0 {
		detail.Details = map[string][]string(p.Fields)
	}
	r := &jsonResponse{status: p.Status, body: JSONBody{Error: detail}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
