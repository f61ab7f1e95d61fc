// Package errors provides structured error types for the diagram generator.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, agent, and MCP surfaces
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - PROVIDER_*: LLM provider failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidStyle, "invalid style: %s", style)
//	if errors.IsCode(err, errors.ErrCodeInvalidStyle) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeProviderRequest, origErr, "call %s", provider)
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
	ErrCodeInvalidStyle       Code = "INVALID_STYLE"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidDescription Code = "INVALID_DESCRIPTION"
	ErrCodeInvalidSuggestion  Code = "INVALID_SUGGESTION"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// LLM provider errors
	ErrCodeProviderMissing  Code = "PROVIDER_MISSING"
	ErrCodeProviderRequest  Code = "PROVIDER_REQUEST_FAILED"
	ErrCodeProviderResponse Code = "PROVIDER_BAD_RESPONSE"

	// Agent errors
	ErrCodeBudgetExhausted Code = "BUDGET_EXHAUSTED"
	ErrCodeUnknownTool     Code = "UNKNOWN_TOOL"

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

// IsCode reports whether any error in err's chain carries the given code.
func IsCode(err error, code Code) bool {
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

// CodeOf returns the code of the outermost structured error in err's chain,
// or ErrCodeInternal if err carries no code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
