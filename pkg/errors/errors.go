// Package errors provides coded errors for deckview.
//
// Every failure that reaches the user carries a machine-readable [Code] so
// the CLI can decide how to report it (bad input, missing sheet, expired
// session) without matching on message text.
//
// # Error Codes
//
// Codes are grouped by prefix:
//   - INVALID_*: input or configuration validation failures
//   - NOT_FOUND: a sheet, item, session or file does not exist
//   - NETWORK_ERROR, RATE_LIMITED: remote data source failures
//   - UNAUTHORIZED, SESSION_EXPIRED: sign-in state
//   - INTERNAL_ERROR: everything unexpected
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidLayout) {
//	    // show the list of layouts
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch sheet %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeNotFound Code = "NOT_FOUND"

	// Remote data source errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Sign-in errors
	ErrCodeUnauthorized   Code = "UNAUTHORIZED"
	ErrCodeSessionExpired Code = "SESSION_EXPIRED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error carries a Code, a user-facing message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// coder is implemented by errors that know their own code.
type coder interface {
	Code() Code
}

// codeOf returns the code err itself carries, without unwrapping.
func codeOf(err error) (Code, bool) {
	switch e := err.(type) {
	case *Error:
		return e.Code, true
	case coder:
		return e.Code(), true
	}
	return "", false
}

// Is reports whether any error in err's chain carries code. A NETWORK_ERROR
// wrapping a RATE_LIMITED error matches both.
func Is(err error, code Code) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if c, ok := codeOf(err); ok && c == code {
			return true
		}
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	for ; err != nil; err = errors.Unwrap(err) {
		if c, ok := codeOf(err); ok {
			return c
		}
	}
	return ""
}

// UserMessage returns the message of the outermost *Error, without the
// code prefix and cause, or err.Error() when the chain has none.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError is returned when the data source asks the client to back
// off.
type RateLimitedError struct {
	RetryAfter int // seconds, 0 if unknown
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns ErrCodeRateLimited.
func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
