package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the base error type for all application errors
type AppError struct {
	Message  string        // Human-readable error message
	Context  *ErrorContext // Rich error context
	Cause    error         // Underlying error (for wrapping)
	ExitCode ExitCode      // Exit code for CLI
	Status   int           // HTTP status for the request boundary (0 = 500)
}

// Error returns the error message with cause if present
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code a request handler should answer with
func (e *AppError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// GetUserMessage returns a user-friendly error message with context
func (e *AppError) GetUserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", e.Message)

	if e.Cause != nil {
		msg += fmt.Sprintf("\nCause: %v", e.Cause)
	}

	if e.Context != nil {
		msg += e.Context.Format()
	}

	return msg
}

// NewError creates a new AppError with the given message and exit code
func NewError(message string, exitCode ExitCode) *AppError {
	return &AppError{
		Message:  message,
		ExitCode: exitCode,
	}
}

// WrapError wraps an existing error with additional context
func WrapError(cause error, message string, exitCode ExitCode) *AppError {
	return &AppError{
		Message:  message,
		Cause:    cause,
		ExitCode: exitCode,
	}
}

// WrapErrorWithContext wraps an error with full context
func WrapErrorWithContext(cause error, message string, exitCode ExitCode, context *ErrorContext) *AppError {
	return &AppError{
		Message:  message,
		Context:  context,
		Cause:    cause,
		ExitCode: exitCode,
	}
}

type statusCoder interface {
	HTTPStatus() int
}

type exitCoder interface {
	exitCode() ExitCode
}

func (e *AppError) exitCode() ExitCode {
	return e.ExitCode
}

// HTTPStatus resolves the status code for err. The outermost application
// error in the chain decides; plain errors map to 500.
func HTTPStatus(err error) int {
	var sc statusCoder
	if stderrors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ExitCodeOf resolves the CLI exit code for err
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var ec exitCoder
	if stderrors.As(err, &ec) {
		return ec.exitCode()
	}
	return ExitGeneralError
}
