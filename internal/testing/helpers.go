package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/user/shopchat/internal/llm"
	"github.com/user/shopchat/internal/llmtypes"
)

// MockLLMClient implements llm.LLMClient for testing
type MockLLMClient struct {
	mu             sync.Mutex
	Responses      []llm.CompletionResponse
	CallCount      int
	LastRequest    llm.CompletionRequest
	ShouldError    bool
	ErrorToReturn  error
	RequestHistory []llm.CompletionRequest
	// ErrorOnCall fails only the n-th call (1-based) when set
	ErrorOnCall int
}

// NewMockLLMClient creates a new mock LLM client with predefined responses
func NewMockLLMClient(responses ...llm.CompletionResponse) *MockLLMClient {
	return &MockLLMClient{
		Responses:      responses,
		RequestHistory: make([]llm.CompletionRequest, 0),
	}
}

// GenerateCompletion implements llm.LLMClient
func (m *MockLLMClient) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRequest = req
	m.RequestHistory = append(m.RequestHistory, copyRequest(req))
	m.CallCount++

	if m.ShouldError && (m.ErrorOnCall == 0 || m.ErrorOnCall == m.CallCount) {
		return llm.CompletionResponse{}, m.ErrorToReturn
	}

	idx := m.CallCount - 1
	if idx >= len(m.Responses) {
		// Return last response if we've exhausted the list
		if len(m.Responses) > 0 {
			return m.Responses[len(m.Responses)-1], nil
		}
		return llm.CompletionResponse{}, fmt.Errorf("no responses configured")
	}

	return m.Responses[idx], nil
}

// copyRequest snapshots the message slice; callers keep appending to theirs
func copyRequest(req llm.CompletionRequest) llm.CompletionRequest {
	msgs := make([]llm.Message, len(req.Messages))
	copy(msgs, req.Messages)
	req.Messages = msgs
	return req
}

// SupportsTools implements llm.LLMClient
func (m *MockLLMClient) SupportsTools() bool {
	return true
}

// GetProvider implements llm.LLMClient
func (m *MockLLMClient) GetProvider() string {
	return "mock"
}

// Calls returns the number of completions requested so far
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset resets the mock state
func (m *MockLLMClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastRequest = llm.CompletionRequest{}
	m.RequestHistory = make([]llm.CompletionRequest, 0)
	m.ShouldError = false
	m.ErrorToReturn = nil
	m.ErrorOnCall = 0
}

// SetError configures the mock to return an error
func (m *MockLLMClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShouldError = true
	m.ErrorToReturn = err
}

// TextResponse builds a completion that ends the tool loop
func TextResponse(content string) llm.CompletionResponse {
	return llm.CompletionResponse{
		Content:    content,
		StopReason: llmtypes.StopReasonStop,
	}
}

// ToolCallResponse builds a completion requesting the given tool calls
func ToolCallResponse(calls ...llm.ToolCall) llm.CompletionResponse {
	return llm.CompletionResponse{
		ToolCalls:  calls,
		StopReason: llmtypes.StopReasonToolCalls,
	}
}

// WriteFile writes content to dir/name and returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	fullPath := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// AssertContains fails the test when haystack lacks needle
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected %q to contain %q", haystack, needle)
	}
}
