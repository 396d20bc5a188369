/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package errors provides structured errors with stable codes for the
// preflight boundary. Codes let callers branch on failure class without
// string matching, while the wrapped cause stays available via errors.As.
package errors

import "fmt"

// Code classifies a structured error.
type Code string

const (
	// ErrCodeInvalidInput indicates malformed input at the engine boundary,
	// e.g. a dataset bundle that cannot be parsed.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeNotFound indicates a missing resource such as an unknown
	// schema model or dataset file.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal Code = "INTERNAL"

	// ErrCodeMethodNotAllowed indicates an HTTP method mismatch.
	ErrCodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"

	// ErrCodeRateLimited indicates the caller exceeded the request budget.
	ErrCodeRateLimited Code = "RATE_LIMIT_EXCEEDED"

	// ErrCodeUnavailable indicates the service cannot take requests yet.
	ErrCodeUnavailable Code = "SERVICE_UNAVAILABLE"

	// ErrCodeTimeout indicates the operation exceeded its deadline.
	ErrCodeTimeout Code = "TIMEOUT"
)

// StructuredError is an error carrying a stable code and an optional cause.
type StructuredError struct {
	Code    Code
	Message string
	Err     error

	// Details holds structured context for API error payloads.
	Details map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// New creates a StructuredError with the given code and message.
func New(code Code, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Newf creates a StructuredError with a formatted message.
func Newf(code Code, format string, args ...any) *StructuredError {
	return &StructuredError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a StructuredError wrapping an underlying cause.
func Wrap(code Code, message string, err error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Err: err}
}

// WrapWithContext creates a StructuredError wrapping a cause and carrying
// structured details for API error payloads.
func WrapWithContext(code Code, message string, err error, details map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Err: err, Details: details}
}
