// Package errors provides structured error types for the graphwfc application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Distinguishing fatal setup failures from retryable contradictions
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (fatal, no retry)
//   - NO_PATTERNS / EMPTY_COVERAGE: Setup failures (fatal, no retry)
//   - CONTRADICTION: A domain was emptied during solving (retry with reset)
//   - EXHAUSTED: The iteration or attempt budget ran out
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMixedDirectedness, "GI is directed but GL %d is not", i)
//	if errors.Is(err, errors.ErrCodeContradiction) {
//	    // reset and retry
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidGraphML, parseErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidGraphML    Code = "INVALID_GRAPHML"
	ErrCodeMixedDirectedness Code = "MIXED_DIRECTEDNESS"
	ErrCodeMissingColor      Code = "MISSING_COLOR"

	// Setup failures
	ErrCodeNoPatterns    Code = "NO_PATTERNS"
	ErrCodeEmptyCoverage Code = "EMPTY_COVERAGE"

	// Solve outcomes
	ErrCodeContradiction Code = "CONTRADICTION"
	ErrCodeExhausted     Code = "EXHAUSTED"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Retryable reports whether the error represents a state the caller can
// recover from by resetting the solver and running again. Only
// contradictions are retryable; every setup failure is final.
func Retryable(err error) bool {
	return Is(err, ErrCodeContradiction)
}
