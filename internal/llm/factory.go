package llm

import (
	"fmt"

	"github.com/user/shopchat/internal/config"
)

// Factory creates LLM clients
type Factory struct {
	retryClient *RetryClient
}

// NewFactory creates a new LLM factory. A nil retryClient makes every
// client build one from its own config.
func NewFactory(retryClient *RetryClient) *Factory {
	return &Factory{
		retryClient: retryClient,
	}
}

// CreateClient creates an LLM client based on the provider configuration
func (f *Factory) CreateClient(cfg config.LLMConfig) (LLMClient, error) {
	retryClient := f.retryClient
	if retryClient == nil {
		retryClient = NewRetryClientWithTimeout(cfg.GetTimeout(), RetryConfigFrom(cfg.Retry))
	}

	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg, retryClient), nil
	case "anthropic":
		return NewAnthropicClient(cfg, retryClient), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic)", cfg.Provider)
	}
}
