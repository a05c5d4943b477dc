// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes are uppercase, underscore-separated and stable across minor versions.
const (
	TaskNotFound       = "TASK_NOT_FOUND"
	AmbiguousID        = "AMBIGUOUS_ID"
	AlreadyInitialized = "ALREADY_INITIALIZED"
	InvalidInput       = "INVALID_INPUT"
	InvalidPriority    = "INVALID_PRIORITY"
	InvalidDate        = "INVALID_DATE"
	InvalidFilter      = "INVALID_FILTER"
	InvalidImport      = "INVALID_IMPORT"
	InvalidGroupBy     = "INVALID_GROUP_BY"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	NoChanges          = "NO_CHANGES"
	InternalError      = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error whose message is prefixed onto the cause's message.
func Wrap(code string, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Code: code, Message: msg + ": " + err.Error(), Err: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// HasCode reports whether err is, or wraps, an *Error carrying code.
func HasCode(err error, code string) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == code
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
