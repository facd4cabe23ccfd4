package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"validation", NewValidationError("input is required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("products", "shoes"), http.StatusNotFound},
		{"function calling wraps not found", NewFunctionCallingError(NewNotFoundError("products", "x")), http.StatusBadRequest},
		{"wrapped with fmt", fmt.Errorf("handler: %w", NewValidationError("bad")), http.StatusBadRequest},
		{"tool not found alone", NewToolNotFoundError("x", nil), http.StatusInternalServerError},
		{"upstream", NewUpstreamError("exchange rates", fmt.Errorf("503")), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFunctionCallingError_MessageAndUnwrap(t *testing.T) {
	inner := NewToolNotFoundError("get_weather", []string{"convert_currencies"})
	err := NewFunctionCallingError(inner)

	if !strings.HasPrefix(err.Error(), FunctionCallingMessage+": ") {
		t.Errorf("Expected message to start with %q, got %q", FunctionCallingMessage, err.Error())
	}
	if !strings.Contains(err.Error(), "get_weather") {
		t.Errorf("Expected message to mention tool name, got %q", err.Error())
	}

	var notFound *ToolNotFoundError
	if !stderrors.As(err, &notFound) {
		t.Fatal("Expected errors.As to find ToolNotFoundError")
	}
	if notFound.Tool != "get_weather" {
		t.Errorf("Expected tool 'get_weather', got '%s'", notFound.Tool)
	}
}

func TestExitCodeOf(t *testing.T) {
	if got := ExitCodeOf(nil); got != ExitSuccess {
		t.Errorf("Expected ExitSuccess, got %d", got)
	}
	if got := ExitCodeOf(fmt.Errorf("x")); got != ExitGeneralError {
		t.Errorf("Expected ExitGeneralError, got %d", got)
	}
	if got := ExitCodeOf(NewConfigurationError("bad")); got != ExitConfigError {
		t.Errorf("Expected ExitConfigError, got %d", got)
	}
}

func TestGetUserMessage_IncludesContext(t *testing.T) {
	err := NewMissingEnvVarError("SHOPCHAT_LLM_API_KEY", "llm.api_key", "API key for LLM provider")
	msg := err.GetUserMessage()

	for _, want := range []string{"SHOPCHAT_LLM_API_KEY", "llm: api_key", "What you can do"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected user message to contain %q, got:\n%s", want, msg)
		}
	}
}
