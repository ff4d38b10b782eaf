// Package errors provides structured error types for qmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the allocator, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Diagnostic context (layer, candidate, instruction) attached to failures
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Resource not found
//   - Allocation failures carry the name of the violated condition, such as
//     UNSUPPORTED_MULTI_DEPENDENCY or INSUFFICIENT_MAPPINGS
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArch, "edge (%d,%d) out of range", u, v)
//	if errors.Is(err, errors.ErrCodeInvalidArch) {
//	    // Handle validation error
//	}
//
//	// Attach context for diagnostics
//	err := errors.New(errors.ErrCodeUnreachableMapping, "no candidate survives").
//	    With("layer", 3).With("instruction", 17)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidArch    Code = "INVALID_ARCH"
	ErrCodeInvalidCircuit Code = "INVALID_CIRCUIT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidOption  Code = "INVALID_OPTION"
	ErrCodeInvalidName    Code = "INVALID_NAME"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Allocation errors
	ErrCodeUnsupportedMultiDependency Code = "UNSUPPORTED_MULTI_DEPENDENCY"
	ErrCodeNonMonotonicMapping        Code = "NON_MONOTONIC_MAPPING"
	ErrCodeUnreachableMapping         Code = "UNREACHABLE_MAPPING"
	ErrCodeInsufficientMappings       Code = "INSUFFICIENT_MAPPINGS"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeUnavailable  Code = "UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Field is a key/value pair of diagnostic context.
type Field struct {
	Key   string
	Value any
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code    // Machine-readable error code
	Message string  // Human-readable message
	Cause   error   // Underlying error (optional)
	Fields  []Field // Diagnostic context in insertion order (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(" [")
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%v", f.Key, f.Value)
		}
		b.WriteByte(']')
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// With appends a diagnostic field and returns e for chaining.
func (e *Error) With(key string, value any) *Error {
	e.Fields = append(e.Fields, Field{Key: key, Value: value})
	return e
}

// Field returns the value recorded under key, if any.
func (e *Error) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
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
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
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

// IsAllocation reports whether err is one of the allocation failure kinds.
func IsAllocation(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnsupportedMultiDependency, ErrCodeNonMonotonicMapping,
		ErrCodeUnreachableMapping, ErrCodeInsufficientMappings:
		return true
	}
	return false
}

// IsInvalid reports whether err signals malformed caller input.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidArch, ErrCodeInvalidCircuit,
		ErrCodeInvalidFormat, ErrCodeInvalidOption, ErrCodeInvalidName, ErrCodeInvalidPath:
		return true
	}
	return false
}
