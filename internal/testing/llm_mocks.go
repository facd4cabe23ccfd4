package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func SetJSONHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}

type MockServerOption func(*mockServerConfig)

type mockServerConfig struct {
	validateAuth bool
	authHeader   string
	authValue    string
}

func WithAuthValidation(header, value string) MockServerOption {
	return func(cfg *mockServerConfig) {
		cfg.validateAuth = true
		cfg.authHeader = header
		cfg.authValue = value
	}
}

func NewMockServer(t *testing.T, handler http.HandlerFunc, opts ...MockServerOption) *httptest.Server {
	t.Helper()
	cfg := &mockServerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	wrappedHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.validateAuth {
			if r.Header.Get(cfg.authHeader) != cfg.authValue {
				t.Errorf("Expected %s header '%s', got '%s'", cfg.authHeader, cfg.authValue, r.Header.Get(cfg.authHeader))
			}
		}
		handler(w, r)
	})

	server := httptest.NewServer(wrappedHandler)
	t.Cleanup(server.Close)
	return server
}

func UnauthorizedHandler(errorBody string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(errorBody))
	}
}

func InternalErrorHandler(errorBody string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(errorBody))
	}
}

// OpenAIChatResponse renders a non-streaming chat completion body
func OpenAIChatResponse(content, finishReason string) string {
	encoded, _ := json.Marshal(content)
	return fmt.Sprintf(`{"id":"chatcmpl-123","object":"chat.completion","created":1234567890,"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"%s"}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`, encoded, finishReason)
}

// OpenAIToolCallResponse renders a chat completion requesting one tool call
func OpenAIToolCallResponse(id, name, args string) string {
	encodedArgs, _ := json.Marshal(args)
	return fmt.Sprintf(`{"id":"chatcmpl-123","object":"chat.completion","created":1234567890,"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":null,"tool_calls":[{"id":"%s","type":"function","function":{"name":"%s","arguments":%s}}]},"finish_reason":"tool_calls"}]}`, id, name, encodedArgs)
}

// SequenceHandler replies with bodies in order, repeating the last one
type SequenceHandler struct {
	mu     sync.Mutex
	bodies []string
	calls  int
}

func NewSequenceHandler(bodies ...string) *SequenceHandler {
	return &SequenceHandler{bodies: bodies}
}

func (h *SequenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	idx := h.calls
	if idx >= len(h.bodies) {
		idx = len(h.bodies) - 1
	}
	h.calls++
	h.mu.Unlock()

	SetJSONHeaders(w)
	_, _ = w.Write([]byte(h.bodies[idx]))
}

func (h *SequenceHandler) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// NewExchangeRatesServer serves /currencies.json and /latest.json the way
// Open Exchange Rates does, with USD as the base currency.
func NewExchangeRatesServer(t *testing.T, appID string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/currencies.json", func(w http.ResponseWriter, r *http.Request) {
		SetJSONHeaders(w)
		_, _ = w.Write([]byte(SampleCurrenciesJSON()))
	})
	mux.HandleFunc("/latest.json", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("app_id"); got != appID {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":true,"status":401,"message":"invalid_app_id"}`))
			return
		}
		SetJSONHeaders(w)
		_, _ = w.Write([]byte(SampleLatestRatesJSON()))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
