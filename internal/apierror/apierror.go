// Package apierror defines the closed set of failure categories a handler
// may produce and the JSON error body rendered for each of them.
package apierror

import (
	"net/http"
	"strings"
)

type Kind int

const (
	KindForbidden Kind = iota
	KindNotFound
	KindBadRequest
	KindDatabase
	KindInternal
	KindConflict
	KindUnauthorized
)

// Error carries a failure category plus the user-facing messages for it.
type Error struct {
	Kind   Kind
	Errors []string
}

func (e *Error) Error() string {
	return strings.Join(e.Errors, "; ")
}

func (e *Error) Status() int {
	switch e.Kind {
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Errors: []string{"user may not perform this action"}}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Errors: []string{msg}}
}

func BadRequest(msgs []string) *Error {
	return &Error{Kind: KindBadRequest, Errors: msgs}
}

// Database wraps a store failure. The error's display text is surfaced to the
// client, matching the historical contract of this API.
func Database(err error) *Error {
	return &Error{Kind: KindDatabase, Errors: []string{err.Error()}}
}

func Internal(msg string) *Error {
	return &Error{Kind: KindInternal, Errors: []string{msg}}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Errors: []string{msg}}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Errors: []string{msg}}
}

// Response is the JSON error body. Message is the coarse category name for
// the status code; the per-failure detail lives in Errors.
type Response struct {
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// NewResponse builds the error body for a status code. The message depends
// purely on the status category, never on the underlying failure.
func NewResponse(msgs []string, status int) Response {
	return Response{Errors: msgs, Message: statusMessage(status)}
}

func (e *Error) Response() Response {
	return NewResponse(e.Errors, e.Status())
}

func statusMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusUnprocessableEntity:
		return "Unprocessable Entity"
	case http.StatusConflict:
		return "Conflict"
	default:
		return "Internal Server Error"
	}
}
