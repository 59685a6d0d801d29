// Package domainerrors carries typed error codes across service boundaries so
// handlers can translate domain failures to HTTP responses without string
// matching.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error classification.
type Code string

const (
	CodeBadRequest Code = "bad_request"
	CodeValidation Code = "validation_error"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal_error"

	// Access-control class. A caller holding a bad link cannot distinguish
	// why it failed beyond these codes; none leak other tokens' state.
	CodeMissingToken Code = "missing_token"
	CodeInvalidToken Code = "invalid_token"
	CodeInactiveLink Code = "inactive_link"
	CodeExpiredLink  Code = "expired_link"

	// Submission-quality class, recoverable by resubmitting corrected input.
	CodeUnsupportedType Code = "unsupported_type"
	CodeFileTooLarge    Code = "file_too_large"
	CodeContentMismatch Code = "content_mismatch"

	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
)

// DomainError pairs a Code with a human-readable message and an optional
// wrapped cause.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

// New constructs a DomainError with the given code and message.
func New(code Code, message string) error {
	return DomainError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	return DomainError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ToHTTPStatus maps an error code to its HTTP status. Unknown codes map to
// 500 so new codes fail closed.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeUnsupportedType, CodeFileTooLarge, CodeContentMismatch:
		return http.StatusBadRequest
	case CodeMissingToken, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeInvalidToken, CodeInactiveLink, CodeExpiredLink, CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
