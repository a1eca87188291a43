// Package domainerrors provides coded errors for domain and validation
// failures. Services return these so transports can translate them into
// protocol responses without string matching.
//
// For infrastructure facts (unavailable, not found), use
// pkg/platform/sentinel instead.
package domainerrors

import "errors"

// Code classifies a domain error. The string value doubles as the wire
// error code in HTTP responses.
type Code string

const (
	// CodeInvalidInput marks programmer errors at API boundaries, such
	// as an empty required-permission list. These should never reach a
	// user under normal operation.
	CodeInvalidInput Code = "invalid_input"

	// CodeValidation marks malformed caller-supplied request data.
	CodeValidation Code = "validation_error"

	// CodeBadRequest marks structurally broken requests (unparseable
	// body, missing body).
	CodeBadRequest Code = "bad_request"

	// CodeUnauthorized marks missing or invalid authentication.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks authenticated callers lacking access.
	CodeForbidden Code = "forbidden"

	// CodeNotFound marks references to entities that do not exist.
	CodeNotFound Code = "not_found"

	// CodeInternal marks unexpected failures. Details are logged, never
	// surfaced to callers.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a classification code.
type Error struct {
	code    Code
	message string
	wrapped error
}

// New builds a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{code: code, message: message}
}

// Wrap builds a domain error that preserves an underlying cause for
// errors.Is / errors.As chains.
func Wrap(code Code, message string, err error) error {
	return &Error{code: code, message: message, wrapped: err}
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return string(e.code) + ": " + e.message + ": " + e.wrapped.Error()
	}
	return string(e.code) + ": " + e.message
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is matches by code and message, so errors.Is can compare against a
// freshly constructed domain error.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.code == other.code && e.message == other.message
}

// Code returns the error's classification code.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the human-readable message without the code prefix.
func (e *Error) Message() string {
	return e.message
}

// CodeOf extracts the code from an error chain. Unclassified errors
// report CodeInternal so transports fail safe.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.code
	}
	return CodeInternal
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.code == code
	}
	return false
}
