package observability

import (
	"context"
	"time"

	"github.com/user/shopchat/internal/llm"
)

// InstrumentedClient records latency for every completion of the wrapped client
type InstrumentedClient struct {
	llm.LLMClient
	recorder *Recorder
}

// InstrumentClient wraps client; a nil recorder returns client unchanged
func InstrumentClient(client llm.LLMClient, recorder *Recorder) llm.LLMClient {
	if recorder == nil {
		return client
	}
	return &InstrumentedClient{LLMClient: client, recorder: recorder}
}

// GenerateCompletion implements llm.LLMClient
func (c *InstrumentedClient) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	start := time.Now()
	resp, err := c.LLMClient.GenerateCompletion(ctx, req)
	c.recorder.ObserveLLMRequest(c.GetProvider(), err, time.Since(start))
	return resp, err
}
