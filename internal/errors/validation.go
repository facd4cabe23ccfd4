package errors

import (
	"fmt"
	"net/http"
)

// ValidationError is raised when caller-supplied input is rejected
type ValidationError struct {
	*AppError
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:  message,
			ExitCode: ExitValidationError,
			Status:   http.StatusBadRequest,
		},
	}
}

// NotFoundError is the expected business outcome of a lookup with no matches
type NotFoundError struct {
	*AppError
}

// NewNotFoundError creates a new not found error for the given subject
func NewNotFoundError(subject, query string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message: fmt.Sprintf("%s not found", subject),
			Context: &ErrorContext{
				Operation: "Lookup",
				Component: subject,
				Details: map[string]interface{}{
					"query": query,
				},
			},
			ExitCode: ExitValidationError,
			Status:   http.StatusNotFound,
		},
	}
}

// MissingFileError is raised when a required file is not found
type MissingFileError struct {
	*AppError
}

// NewMissingFileError creates a new missing file error
func NewMissingFileError(filePath string, cause error) *MissingFileError {
	return &MissingFileError{
		AppError: &AppError{
			Message: fmt.Sprintf("Required file not found: %s", filePath),
			Cause:   cause,
			Context: &ErrorContext{
				Operation: "File Validation",
				Component: "Filesystem",
				Details: map[string]interface{}{
					"file_path": filePath,
				},
				Suggestions: []string{
					"Check that the file exists",
					"Verify catalog.csv_path points at the product CSV",
				},
			},
			ExitCode: ExitIOError,
		},
	}
}
