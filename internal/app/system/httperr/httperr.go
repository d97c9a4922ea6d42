// internal/app/system/httperr/httperr.go
// Package httperr carries the API error taxonomy and renders errors as JSON.
//
// Domain code returns typed *Error values (or store sentinels translated into
// them); the outermost handler calls Write, which maps the kind onto an HTTP
// status without losing it. Internal errors keep their cause for server-side
// logging but render a generic message to the caller.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies an API error.
type Kind int

const (
	KindUserInput Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
	KindInternal
)

// Code returns the machine-readable code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindUserInput:
		return "user_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUserInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed API error with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// UserInput marks malformed or missing caller-supplied data.
func UserInput(msg string) *Error { return &Error{Kind: KindUserInput, Message: msg} }

// Unauthorized marks a missing, invalid, or expired credential.
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// Forbidden marks an authenticated caller lacking permission for the action.
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// NotFound marks a referenced entity that does not exist.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// TooManyRequests marks a caller exceeding a rate limit.
func TooManyRequests(msg string) *Error { return &Error{Kind: KindTooManyRequests, Message: msg} }

// Internal wraps an unexpected infrastructure failure. The cause is logged
// server-side only; callers see a generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "something went wrong", cause: cause}
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Error errBody `json:"error"`
}

// Write renders err as a JSON error response. Non-*Error values are treated
// as internal failures. Internal causes are logged, never sent to the caller.
func Write(w http.ResponseWriter, logger *zap.Logger, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}

	if e.Kind == KindInternal && logger != nil {
		cause := e.cause
		if cause == nil {
			cause = err
		}
		logger.Error("internal error", zap.Error(cause))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Kind.Status())
	_ = json.NewEncoder(w).Encode(envelope{Error: errBody{
		Code:    e.Kind.Code(),
		Message: e.Message,
	}})
}
