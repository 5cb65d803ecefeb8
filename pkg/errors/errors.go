// Package errors provides structured error types for brkgraph.
//
// Every error that crosses a package boundary toward the CLI or the HTTP API
// carries a machine-readable [Code], so callers can tell a malformed input
// document from an internal failure without matching on message text.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: input document or argument validation failures
//   - MISSING_FIELD, DUPLICATE_NODE, UNKNOWN_NODE: document content errors
//   - *_NOT_FOUND: missing files or resources
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateNode, "node %d: duplicate id %q", i, id)
//	if errors.Is(err, errors.ErrCodeDuplicateNode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, origErr, "decode %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidField    Code = "INVALID_FIELD"
	ErrCodeInvalidName     Code = "INVALID_NAME"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Document content errors
	ErrCodeMissingField  Code = "MISSING_FIELD"
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"
	ErrCodeUnknownNode   Code = "UNKNOWN_NODE"

	// Resource errors
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeGraphTooLarge Code = "GRAPH_TOO_LARGE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsInputError reports whether err was caused by bad input rather than an
// internal failure. The HTTP API maps these to 400/422 responses.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDocument, ErrCodeInvalidField,
		ErrCodeInvalidName, ErrCodeInvalidPath, ErrCodeMissingField,
		ErrCodeDuplicateNode, ErrCodeUnknownNode, ErrCodeGraphTooLarge:
		return true
	}
	return false
}
