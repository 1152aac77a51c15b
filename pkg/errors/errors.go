// Package errors provides structured errors with stable error codes.
//
// A StructuredError carries a machine-readable Code, a human-readable
// Message, an optional wrapped Cause and optional Context details. Callers
// match on the code with errors.As, or on the cause with errors.Is:
//
//	db, err := database.New(ctx, dev, "Xgemm", database.PrecisionSingle, nil)
//	var se *errors.StructuredError
//	if errors.As(err, &se) && se.Code == errors.ErrCodeNotFound {
//	    // extend the knowledge base
//	}
package errors

import (
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StructuredError is an error with a code, message, optional cause and context details.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause so errors.Is and errors.As see through it.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a StructuredError around an existing error.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext creates a StructuredError around an existing error and attaches context details.
// The context map is copied.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	e := Wrap(code, message, cause)
	if len(context) > 0 {
		e.Context = make(map[string]any, len(context))
		for k, v := range context {
			e.Context[k] = v
		}
	}
	return e
}
