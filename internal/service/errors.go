package service

import (
	"errors"
	"net/http"
)

// ErrorKind classifies why an issuance request was rejected.
type ErrorKind int

const (
	// KindBadRequest means a required field is missing.
	KindBadRequest ErrorKind = iota + 1
	// KindUnauthorized means the API key is not in the allow-list.
	KindUnauthorized
	// KindIssuanceFailed means the identity provider failed to resolve, create or mint.
	KindIssuanceFailed
)

var (
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrIssuanceFailed = errors.New("issuance failed")
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindIssuanceFailed:
		return "issuance_failed"
	default:
		return "unknown"
	}
}

// StatusCode maps the kind to its HTTP status.
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is returned by the IssuanceService for every rejected request.
type Error struct {
	Kind    ErrorKind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return e.Message + ": " + e.Wrapped.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is lets errors.Is match the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindBadRequest:
		return target == ErrBadRequest
	case KindUnauthorized:
		return target == ErrUnauthorized
	case KindIssuanceFailed:
		return target == ErrIssuanceFailed
	}
	return false
}

// StatusCode returns the HTTP status for the error.
func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

// Cause returns the message of the underlying failure, or an empty string.
func (e *Error) Cause() string {
	if e.Wrapped == nil {
		return ""
	}
	return e.Wrapped.Error()
}

func badRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func issuanceFailed(msg string, err error) *Error {
	return &Error{Kind: KindIssuanceFailed, Message: msg, Wrapped: err}
}
