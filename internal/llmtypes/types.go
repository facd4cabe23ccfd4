package llmtypes

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Normalized stop reasons. Provider clients map their native values onto these.
const (
	StopReasonStop      = "stop"
	StopReasonToolCalls = "tool_calls"
	StopReasonLength    = "length"
)

// Message represents a chat message
type Message struct {
	Role       string     // "system", "user", "assistant", "tool"
	Content    string
	ToolCallID string     // ID of the tool call this message answers (for role="tool")
	ToolCalls  []ToolCall // Tool calls requested by the assistant (for role="assistant")
}

// ToolCall represents a tool/function call requested by the LLM
type ToolCall struct {
	ID        string // Provider-assigned call ID
	Name      string // Name of the tool to call
	Arguments string // Raw JSON arguments exactly as produced by the model
}

// CompletionRequest is a request for LLM completion
type CompletionRequest struct {
	SystemPrompt string
	Messages     []Message
	Tools        []ToolDefinition
	MaxTokens    int
	Temperature  float64
}

// CompletionResponse is the response from LLM (top choice only)
type CompletionResponse struct {
	Content    string
	ToolCalls  []ToolCall
	StopReason string
	Usage      TokenUsage
}

// WantsTools reports whether the model stopped to request tool calls
func (r CompletionResponse) WantsTools() bool {
	return r.StopReason == StopReasonToolCalls
}

// TokenUsage tracks token usage
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ToolDefinition defines a tool for the LLM
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}
