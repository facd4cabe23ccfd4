package errors

import (
	"fmt"
	"net/http"
)

// FunctionCallingMessage prefixes every orchestrator failure shown to clients
const FunctionCallingMessage = "function calling error"

// FunctionCallingError is the single user-visible failure of an orchestrator run
type FunctionCallingError struct {
	*AppError
}

// NewFunctionCallingError wraps any failure that happened during a run
func NewFunctionCallingError(cause error) *FunctionCallingError {
	return &FunctionCallingError{
		AppError: &AppError{
			Message:  FunctionCallingMessage,
			Cause:    cause,
			ExitCode: ExitAgentError,
			Status:   http.StatusBadRequest,
		},
	}
}

// ToolNotFoundError is raised when the model requests a tool missing from the registry
type ToolNotFoundError struct {
	*AppError
	Tool string
}

// NewToolNotFoundError creates a new tool not found error
func NewToolNotFoundError(toolName string, available []string) *ToolNotFoundError {
	return &ToolNotFoundError{
		AppError: &AppError{
			Message: fmt.Sprintf("tool '%s' not found", toolName),
			Context: &ErrorContext{
				Operation: "Tool Dispatch",
				Component: "Tool Registry",
				Details: map[string]interface{}{
					"tool":      toolName,
					"available": available,
				},
			},
			ExitCode: ExitAgentError,
		},
		Tool: toolName,
	}
}

// ToolBudgetExceededError is raised when the model keeps requesting tools past the round limit
type ToolBudgetExceededError struct {
	*AppError
	Rounds int
}

// NewToolBudgetExceededError creates a new tool budget error
func NewToolBudgetExceededError(rounds int) *ToolBudgetExceededError {
	return &ToolBudgetExceededError{
		AppError: &AppError{
			Message: fmt.Sprintf("tool-call budget exceeded after %d rounds", rounds),
			Context: &ErrorContext{
				Operation: "Function Calling",
				Component: "FunctionCaller",
				Details: map[string]interface{}{
					"max_rounds": rounds,
				},
				Suggestions: []string{
					"Increase chatbot.max_tool_rounds",
				},
			},
			ExitCode: ExitAgentError,
		},
		Rounds: rounds,
	}
}

// ToolArgumentsError is raised when the model produced arguments that are not a JSON object
type ToolArgumentsError struct {
	*AppError
}

// NewToolArgumentsError creates a new tool arguments error
func NewToolArgumentsError(toolName, raw, reason string) *ToolArgumentsError {
	return &ToolArgumentsError{
		AppError: &AppError{
			Message: fmt.Sprintf("invalid arguments for tool '%s': %s", toolName, reason),
			Context: &ErrorContext{
				Operation: "Parsing Tool Arguments",
				Component: toolName,
				Details: map[string]interface{}{
					"arguments": raw,
				},
			},
			ExitCode: ExitAgentError,
		},
	}
}

// ToolExecutionError is raised when a tool callback fails
type ToolExecutionError struct {
	*AppError
}

// NewToolExecutionError creates a new tool execution error
func NewToolExecutionError(toolName string, cause error) *ToolExecutionError {
	return &ToolExecutionError{
		AppError: &AppError{
			Message: fmt.Sprintf("tool '%s' execution failed", toolName),
			Cause:   cause,
			Context: &ErrorContext{
				Operation: "Tool Execution",
				Component: toolName,
				Details: map[string]interface{}{
					"tool": toolName,
				},
			},
			ExitCode: ExitAgentError,
		},
	}
}
