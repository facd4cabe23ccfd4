package errors

import (
	"fmt"
	"net/http"
)

// LLMConnectionError is raised when the LLM provider is unreachable or answers non-2xx
type LLMConnectionError struct {
	*AppError
}

// NewLLMConnectionError creates a new LLM connection error
func NewLLMConnectionError(provider string, cause error) *LLMConnectionError {
	return &LLMConnectionError{
		AppError: &AppError{
			Message: fmt.Sprintf("Failed to connect to LLM provider: %s", provider),
			Cause:   cause,
			Context: &ErrorContext{
				Operation: "LLM API Call",
				Component: "LLM Client",
				Details: map[string]interface{}{
					"provider": provider,
				},
				Suggestions: []string{
					"Verify the API endpoint is accessible",
					"Check if the API key is valid",
				},
				Recoverable: true,
			},
			ExitCode: ExitLLMError,
			Status:   http.StatusBadGateway,
		},
	}
}

// LLMResponseError is raised when an LLM response cannot be parsed
type LLMResponseError struct {
	*AppError
}

// NewLLMResponseError creates a new LLM response error
func NewLLMResponseError(provider, reason string) *LLMResponseError {
	return &LLMResponseError{
		AppError: &AppError{
			Message: fmt.Sprintf("Invalid response from LLM provider %s: %s", provider, reason),
			Context: &ErrorContext{
				Operation: "Parsing LLM Response",
				Component: "LLM Client",
				Details: map[string]interface{}{
					"provider": provider,
					"reason":   reason,
				},
				Suggestions: []string{
					"Check if the model name is correct",
					"Check that the model supports tool calling",
				},
				Recoverable: true,
			},
			ExitCode: ExitLLMError,
			Status:   http.StatusBadGateway,
		},
	}
}

// UpstreamError is raised when a lookup provider's remote API fails
type UpstreamError struct {
	*AppError
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(service string, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message: fmt.Sprintf("%s request failed", service),
			Cause:   cause,
			Context: &ErrorContext{
				Operation:   "Upstream API Call",
				Component:   service,
				Recoverable: true,
			},
			ExitCode: ExitUpstreamError,
			Status:   http.StatusBadGateway,
		},
	}
}
