package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/shopchat/internal/errors"
	"github.com/user/shopchat/internal/llm"
	"github.com/user/shopchat/internal/llmtypes"
	"github.com/user/shopchat/internal/logging"
	"github.com/user/shopchat/internal/prompts"
	"github.com/user/shopchat/internal/tools"
)

// DefaultMaxRounds bounds tool-execution rounds when none is configured
const DefaultMaxRounds = 8

// FunctionCallerConfig holds the tunables of a FunctionCaller
type FunctionCallerConfig struct {
	MaxRounds   int
	SchemaMode  tools.SchemaMode
	MaxTokens   int
	Temperature float64
	Metrics     Metrics
}

// FunctionCaller drives a tool-calling conversation with the model until it
// stops requesting tools, then asks for a final answer in a fresh context.
// It holds no per-request state and is safe for concurrent use.
type FunctionCaller struct {
	client  llm.LLMClient
	prompts *prompts.Manager
	logger  *logging.Logger
	cfg     FunctionCallerConfig
}

// NewFunctionCaller creates a new orchestrator
func NewFunctionCaller(client llm.LLMClient, promptManager *prompts.Manager, logger *logging.Logger, cfg FunctionCallerConfig) *FunctionCaller {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.SchemaMode == "" {
		cfg.SchemaMode = tools.SchemaPerTool
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &FunctionCaller{
		client:  client,
		prompts: promptManager,
		logger:  logger,
		cfg:     cfg,
	}
}

// WithLogger returns a copy that logs to logger, typically one carrying a request id
func (fc *FunctionCaller) WithLogger(logger *logging.Logger) *FunctionCaller {
	clone := *fc
	clone.logger = logger
	return &clone
}

// Policy is fixed: every orchestrator failure reaches the caller
func (fc *FunctionCaller) Policy() FailurePolicy {
	return PolicyPropagate
}

// Run answers input using the tools in reg. Every failure is returned as a
// *errors.FunctionCallingError wrapping the cause; no partial answer is
// returned.
func (fc *FunctionCaller) Run(ctx context.Context, input string, reg *tools.Registry) (string, error) {
	answer, err := fc.run(ctx, input, reg)
	if err != nil {
		fc.logger.Error("Function calling failed", logging.Error(err))
		return "", errors.NewFunctionCallingError(err)
	}
	return answer, nil
}

func (fc *FunctionCaller) run(ctx context.Context, input string, reg *tools.Registry) (string, error) {
	enumeration := tools.Enumerate(reg)
	definitions := tools.BuildDefinitions(reg, fc.cfg.SchemaMode)

	systemPrompt, err := fc.prompts.Render(prompts.FunctionCallingSystem, map[string]interface{}{
		"Tools": enumeration,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	nudge, err := fc.prompts.Render(prompts.FunctionCallingNudge, map[string]interface{}{
		"Tools": enumeration,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render nudge prompt: %w", err)
	}

	messages := []llm.Message{
		{Role: llmtypes.RoleSystem, Content: systemPrompt},
		{Role: llmtypes.RoleUser, Content: input},
	}

	fc.logger.Debug("Starting function calling",
		logging.Strings("tools", reg.Names()),
		logging.Int("max_rounds", fc.cfg.MaxRounds),
		logging.String("schema_mode", string(fc.cfg.SchemaMode)),
	)

	rounds := 0
	defer func() { fc.cfg.Metrics.ObserveRounds(rounds) }()

	var result string
	for {
		fc.logger.Info("Calling LLM",
			logging.Int("round", rounds+1),
			logging.Int("history_messages", len(messages)),
			logging.Int("tool_count", len(definitions)),
		)

		resp, err := fc.client.GenerateCompletion(ctx, llm.CompletionRequest{
			Messages:    messages,
			Tools:       definitions,
			MaxTokens:   fc.cfg.MaxTokens,
			Temperature: fc.cfg.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("LLM call failed: %w", err)
		}

		fc.logger.Info("LLM response received",
			logging.Int("input_tokens", resp.Usage.InputTokens),
			logging.Int("output_tokens", resp.Usage.OutputTokens),
			logging.Int("tool_calls", len(resp.ToolCalls)),
			logging.String("stop_reason", resp.StopReason),
		)

		if !resp.WantsTools() {
			result = resp.Content
			break
		}

		if rounds >= fc.cfg.MaxRounds {
			fc.logger.Warn("Tool-call budget exhausted", logging.Int("max_rounds", fc.cfg.MaxRounds))
			return "", errors.NewToolBudgetExceededError(fc.cfg.MaxRounds)
		}
		rounds++

		messages = append(messages, llm.Message{
			Role:      llmtypes.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// One at a time, results appended in request order
		for _, call := range resp.ToolCalls {
			output, err := fc.executeTool(ctx, reg, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, llm.Message{
				Role:       llmtypes.RoleTool,
				Content:    output,
				ToolCallID: call.ID,
			})
		}

		messages = append(messages, llm.Message{Role: llmtypes.RoleSystem, Content: nudge})
	}

	return fc.finalize(ctx, input, result)
}

// executeTool resolves and runs a single tool call
func (fc *FunctionCaller) executeTool(ctx context.Context, reg *tools.Registry, call llm.ToolCall) (string, error) {
	args, err := tools.ParseArguments(call.Arguments)
	if err != nil {
		argErr := errors.NewToolArgumentsError(call.Name, call.Arguments, err.Error())
		fc.cfg.Metrics.ObserveToolCall(toolLabel(reg, call.Name), argErr, 0)
		return "", argErr
	}

	tool, err := reg.Lookup(call.Name)
	if err != nil {
		fc.logger.Warn("Tool not found", logging.String("tool", call.Name))
		fc.cfg.Metrics.ObserveToolCall(toolLabel(reg, call.Name), err, 0)
		return "", err
	}

	fc.logger.Info("Executing tool",
		logging.String("tool", call.Name),
		logging.String("tool_call_id", call.ID),
	)

	start := time.Now()
	output, err := tool.Execute(ctx, args)
	elapsed := time.Since(start)
	fc.cfg.Metrics.ObserveToolCall(call.Name, err, elapsed)

	if err != nil {
		fc.logger.Error("Tool execution failed",
			logging.String("tool", call.Name),
			logging.Duration("duration", elapsed),
			logging.Error(err),
		)
		return "", errors.NewToolExecutionError(call.Name, err)
	}

	fc.logger.Debug("Tool finished",
		logging.String("tool", call.Name),
		logging.Duration("duration", elapsed),
		logging.Int("result_len", len(output)),
	)
	return output, nil
}

// toolLabel keeps metric labels bounded to registered tool names
func toolLabel(reg *tools.Registry, name string) string {
	if _, err := reg.Lookup(name); err != nil {
		return "unknown"
	}
	return name
}

// finalize phrases the answer from a fresh two-message context; the tool
// history is not sent
func (fc *FunctionCaller) finalize(ctx context.Context, input, result string) (string, error) {
	finalPrompt, err := fc.prompts.Render(prompts.FunctionCallingFinal, map[string]interface{}{
		"Result": result,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render final prompt: %w", err)
	}

	fc.logger.Info("Requesting final answer")

	resp, err := fc.client.GenerateCompletion(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llmtypes.RoleUser, Content: input},
			{Role: llmtypes.RoleSystem, Content: finalPrompt},
		},
		MaxTokens:   fc.cfg.MaxTokens,
		Temperature: fc.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("final LLM call failed: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}
