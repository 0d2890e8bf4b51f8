// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure for translation at the HTTP boundary.
type ErrorKind int

// The closed set of failure kinds understood by the API boundary.
const (
	// KindInternal is an unclassified failure. It is the zero value so that
	// anything left unclassified is treated as internal.
	KindInternal ErrorKind = iota

	// KindNotFound means the referenced resource does not exist.
	KindNotFound

	// KindValidation means one or more field-level rules were violated.
	KindValidation

	// KindUnauthenticated means the credential is missing or unrecognized.
	KindUnauthenticated

	// KindForbidden means the credential is recognized but lacks the required tier.
	KindForbidden

	// KindMalformedPayload means the request body is not valid JSON.
	KindMalformedPayload

	// KindMethodNotAllowed means the route exists but not for the request method.
	KindMethodNotAllowed
)

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindMalformedPayload:
		return "malformed_payload"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// StatusCode maps the kind to its HTTP status code.
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindMalformedPayload:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// DefaultMessage is the client-facing message used when none is supplied.
func (k ErrorKind) DefaultMessage() string {
	switch k {
	case KindNotFound:
		return "Resource not found"
	case KindValidation:
		return "Validation failed"
	case KindUnauthenticated:
		return "Authentication required"
	case KindForbidden:
		return "Insufficient permissions"
	case KindMalformedPayload:
		return "Invalid JSON payload"
	case KindMethodNotAllowed:
		return "Method not allowed"
	default:
		return "Internal server error"
	}
}

// Error is the single error type carried through the request pipeline.
// Violations is only populated for KindValidation. Detail is an optional
// client-safe hint; it is never set on internal errors.
type Error struct {
	Kind       ErrorKind
	Message    string
	Violations []string
	Detail     string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.DefaultMessage()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the wrapped cause to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// PublicMessage is the message safe to show to clients.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal || e.Message == "" {
		return e.Kind.DefaultMessage()
	}
	return e.Message
}

// WithDetail attaches a client-safe hint and returns e.
func (e *Error) WithDetail(detail string) *Error {
	if e.Kind != KindInternal {
		e.Detail = detail
	}
	return e
}

// NewNotFoundError creates a KindNotFound error.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewValidationError creates a KindValidation error carrying the ordered violations.
func NewValidationError(message string, violations ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Violations: violations}
}

// NewUnauthenticatedError creates a KindUnauthenticated error.
func NewUnauthenticatedError(message string, cause error) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message, Err: cause}
}

// NewForbiddenError creates a KindForbidden error.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewMalformedPayloadError creates a KindMalformedPayload error wrapping the decode failure.
func NewMalformedPayloadError(cause error) *Error {
	return &Error{Kind: KindMalformedPayload, Err: cause}
}

// NewMethodNotAllowedError creates a KindMethodNotAllowed error.
func NewMethodNotAllowedError() *Error {
	return &Error{Kind: KindMethodNotAllowed}
}

// NewInternalError wraps an unclassified failure.
func NewInternalError(cause error) *Error {
	return &Error{Kind: KindInternal, Err: cause}
}

// KindOf classifies err. Anything that does not wrap an *Error is internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AsError returns err as an *Error, wrapping unclassified errors as internal.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewInternalError(err)
}
