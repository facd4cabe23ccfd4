package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/shopchat/internal/config"
	"github.com/user/shopchat/internal/errors"
	"github.com/user/shopchat/internal/llmtypes"
)

// anthropicDefaultMaxTokens is used when the request leaves MaxTokens unset;
// the Messages API rejects requests without it.
const anthropicDefaultMaxTokens = 1024

// AnthropicClient implements LLMClient for Anthropic Claude
type AnthropicClient struct {
	*BaseLLMClient
	apiKey  string
	model   string
	baseURL string
}

// anthropicRequest represents the request body for Anthropic API
type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
}

// anthropicMessage represents a message in Anthropic format
type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

// anthropicContentBlock represents a content block
type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	// Tool use fields (flat when type=="tool_use")
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
	// Tool result fields (flat when type=="tool_result")
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// anthropicTool represents a tool definition
type anthropicTool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// anthropicResponse represents the response from Anthropic API
type anthropicResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      anthropicUsage          `json:"usage"`
	Error      *anthropicError         `json:"error,omitempty"`
}

// anthropicUsage represents token usage
type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// anthropicError represents an error from Anthropic
type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(cfg config.LLMConfig, retryClient *RetryClient) *AnthropicClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &AnthropicClient{
		BaseLLMClient: NewBaseLLMClient(retryClient),
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		baseURL:       baseURL,
	}
}

// GenerateCompletion generates a completion from Anthropic
func (c *AnthropicClient) GenerateCompletion(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	anReq := c.convertRequest(req)

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	}

	body, err := c.postJSON(ctx, c.GetProvider(), c.baseURL+"/v1/messages", headers, anReq)
	if err != nil {
		return CompletionResponse{}, err
	}

	var anResp anthropicResponse
	if err := json.Unmarshal(body, &anResp); err != nil {
		return CompletionResponse{}, errors.NewLLMResponseError(c.GetProvider(), fmt.Sprintf("failed to parse response: %v", err))
	}

	if anResp.Error != nil {
		return CompletionResponse{}, errors.NewLLMResponseError(c.GetProvider(), anResp.Error.Message)
	}

	return c.convertResponse(anResp), nil
}

// SupportsTools returns true
func (c *AnthropicClient) SupportsTools() bool {
	return true
}

// GetProvider returns the provider name
func (c *AnthropicClient) GetProvider() string {
	return "anthropic"
}

// convertRequest converts internal request to Anthropic format.
//
// Leading system messages become the top-level system prompt. Later system
// messages and tool results are folded into user turns, merging with the
// previous user turn so roles keep alternating.
func (c *AnthropicClient) convertRequest(req CompletionRequest) anthropicRequest {
	var system []string
	if req.SystemPrompt != "" {
		system = append(system, req.SystemPrompt)
	}

	messages := []anthropicMessage{}
	for _, msg := range req.Messages {
		switch msg.Role {
		case llmtypes.RoleSystem:
			if len(messages) == 0 {
				system = append(system, msg.Content)
				continue
			}
			messages = appendUserBlock(messages, anthropicContentBlock{Type: "text", Text: msg.Content})
		case llmtypes.RoleTool:
			messages = appendUserBlock(messages, anthropicContentBlock{
				Type:      "tool_result",
				ToolUseID: msg.ToolCallID,
				Content:   msg.Content,
			})
		case llmtypes.RoleAssistant:
			var blocks []anthropicContentBlock
			if msg.Content != "" {
				blocks = append(blocks, anthropicContentBlock{Type: "text", Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				input := json.RawMessage(tc.Arguments)
				if strings.TrimSpace(tc.Arguments) == "" {
					input = json.RawMessage("{}")
				}
				blocks = append(blocks, anthropicContentBlock{
					Type:  "tool_use",
					ID:    tc.ID,
					Name:  tc.Name,
					Input: input,
				})
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropicMessage{Role: llmtypes.RoleAssistant, Content: blocks})
			}
		default:
			messages = appendUserBlock(messages, anthropicContentBlock{Type: "text", Text: msg.Content})
		}
	}

	var tools []anthropicTool
	if len(req.Tools) > 0 {
		tools = make([]anthropicTool, len(req.Tools))
		for i, tool := range req.Tools {
			tools[i] = anthropicTool{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.Parameters,
			}
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	return anthropicRequest{
		Model:       c.model,
		Messages:    messages,
		System:      strings.Join(system, "\n\n"),
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Tools:       tools,
	}
}

func appendUserBlock(messages []anthropicMessage, block anthropicContentBlock) []anthropicMessage {
	if n := len(messages); n > 0 && messages[n-1].Role == llmtypes.RoleUser {
		messages[n-1].Content = append(messages[n-1].Content, block)
		return messages
	}
	return append(messages, anthropicMessage{
		Role:    llmtypes.RoleUser,
		Content: []anthropicContentBlock{block},
	})
}

// convertResponse converts an Anthropic response to internal format
func (c *AnthropicClient) convertResponse(resp anthropicResponse) CompletionResponse {
	var text strings.Builder
	var toolCalls []ToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			args := string(block.Input)
			if args == "" || args == "null" {
				args = "{}"
			}
			toolCalls = append(toolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	return CompletionResponse{
		Content:    text.String(),
		ToolCalls:  toolCalls,
		StopReason: anthropicStopReason(resp.StopReason),
		Usage: TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
}

func anthropicStopReason(stopReason string) string {
	switch stopReason {
	case "tool_use":
		return llmtypes.StopReasonToolCalls
	case "max_tokens":
		return llmtypes.StopReasonLength
	default:
		return llmtypes.StopReasonStop
	}
}
