package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/user/shopchat/internal/agents"
	"github.com/user/shopchat/internal/config"
	"github.com/user/shopchat/internal/llm"
	"github.com/user/shopchat/internal/observability"
	"github.com/user/shopchat/internal/prompts"
	testHelpers "github.com/user/shopchat/internal/testing"
)

type fakeConverter struct {
	mu    sync.Mutex
	calls []string
	panic bool
}

func (f *fakeConverter) Convert(ctx context.Context, amount float64, from, to string) (string, error) {
	if f.panic {
		panic("converter exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, from+"->"+to)
	return "100 COP = 0.0251 USD", nil
}

type fakeSearcher struct{}

func (fakeSearcher) Search(ctx context.Context, name string) (string, error) {
	return `[{"displayTitle":"iPhone 12"}]`, nil
}

func newTestServer(t *testing.T, mock *testHelpers.MockLLMClient, converter *fakeConverter, recorder *observability.Recorder) http.Handler {
	t.Helper()

	pm, err := prompts.NewManager("")
	if err != nil {
		t.Fatalf("Failed to load prompts: %v", err)
	}
	if converter == nil {
		converter = &fakeConverter{}
	}

	caller := agents.NewFunctionCaller(mock, pm, nil, agents.FunctionCallerConfig{MaxRounds: 3})
	srv := New(config.ServerConfig{Addr: "127.0.0.1:0"}, Deps{
		Caller:    caller,
		Converter: converter,
		Searcher:  fakeSearcher{},
		Recorder:  recorder,
	})
	return srv.Handler()
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chatbot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	return body.Error
}

func TestChatbot_Success(t *testing.T) {
	mock := testHelpers.NewMockLLMClient(
		testHelpers.ToolCallResponse(llm.ToolCall{
			ID:        "call_1",
			Name:      "convert_currencies",
			Arguments: `{"amount": 100, "from": "COP", "to": "USD"}`,
		}),
		testHelpers.TextResponse("100 COP = 0.0251 USD"),
		testHelpers.TextResponse("  100 COP is about 0.0251 USD.  "),
	)
	converter := &fakeConverter{}
	h := newTestServer(t, mock, converter, nil)

	rec := post(h, `{"input": "Convert 100 COP to USD"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Expected JSON content type, got %q", ct)
	}
	var body ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Response != "100 COP is about 0.0251 USD." {
		t.Fatalf("Expected trimmed answer, got %q", body.Response)
	}
	if len(converter.calls) != 1 || converter.calls[0] != "COP->USD" {
		t.Fatalf("Expected one COP->USD conversion, got %v", converter.calls)
	}
	if mock.Calls() != 3 {
		t.Fatalf("Expected 3 completions, got %d", mock.Calls())
	}
}

func TestChatbot_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty input", `{"input": ""}`, "input is required"},
		{"whitespace input", `{"input": "   "}`, "input is required"},
		{"missing input", `{}`, "input is required"},
		{"unknown field", `{"input": "hi", "extra": 1}`, "invalid request body"},
		{"invalid json", `{"input": `, "invalid request body"},
		{"wrong type", `{"input": 42}`, "invalid request body"},
		{"trailing data", `{"input": "hi"} {"input": "again"}`, "unexpected data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testHelpers.NewMockLLMClient(testHelpers.TextResponse("unused"))
			h := newTestServer(t, mock, nil, nil)

			rec := post(h, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			testHelpers.AssertContains(t, decodeError(t, rec), tt.wantMsg)
			if mock.Calls() != 0 {
				t.Fatalf("Expected no LLM calls, got %d", mock.Calls())
			}
		})
	}
}

func TestChatbot_FunctionCallingErrorIs400(t *testing.T) {
	mock := testHelpers.NewMockLLMClient(
		testHelpers.ToolCallResponse(llm.ToolCall{ID: "call_1", Name: "launch_rockets", Arguments: `{}`}),
	)
	h := newTestServer(t, mock, nil, nil)

	rec := post(h, `{"input": "hello"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	msg := decodeError(t, rec)
	if !strings.HasPrefix(msg, "function calling error: ") {
		t.Fatalf("Expected function calling error prefix, got %q", msg)
	}
	testHelpers.AssertContains(t, msg, "launch_rockets")
}

func TestChatbot_PanicIs500(t *testing.T) {
	mock := testHelpers.NewMockLLMClient(
		testHelpers.ToolCallResponse(llm.ToolCall{
			ID:        "call_1",
			Name:      "convert_currencies",
			Arguments: `{"amount": 1, "from": "USD", "to": "EUR"}`,
		}),
	)
	h := newTestServer(t, mock, &fakeConverter{panic: true}, nil)

	rec := post(h, `{"input": "Convert 1 USD to EUR"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "internal server error" {
		t.Fatalf("Expected generic message, got %q", msg)
	}
}

func TestChatbot_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t, testHelpers.NewMockLLMClient(), nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chatbot", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected status 405, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, testHelpers.NewMockLLMClient(), nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("Expected a generated request id")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("Expected request id 'abc-123', got %q", got)
	}
}

func TestOpenAPI(t *testing.T) {
	h := newTestServer(t, testHelpers.NewMockLLMClient(), nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var doc map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("Expected JSON document, got error: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("Expected openapi 3.0.3, got %v", doc["openapi"])
	}
	paths, ok := doc["paths"].(map[string]interface{})
	if !ok || paths["/chatbot"] == nil {
		t.Fatalf("Expected /chatbot path in document, got %v", doc["paths"])
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	testHelpers.AssertContains(t, rec.Body.String(), "openapi: 3.0.3")
}

func TestMetricsEndpoint(t *testing.T) {
	recorder := observability.NewRecorder()
	h := newTestServer(t, testHelpers.NewMockLLMClient(), nil, recorder)

	post(h, `{"input": ""}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	testHelpers.AssertContains(t, rec.Body.String(), `shopchat_http_requests_total{route="/chatbot",status="400"} 1`)
}

func TestMetricsEndpoint_CountsRecoveredPanics(t *testing.T) {
	mock := testHelpers.NewMockLLMClient(
		testHelpers.ToolCallResponse(llm.ToolCall{
			ID:        "call_1",
			Name:      "convert_currencies",
			Arguments: `{"amount": 1, "from": "USD", "to": "EUR"}`,
		}),
	)
	recorder := observability.NewRecorder()
	h := newTestServer(t, mock, &fakeConverter{panic: true}, recorder)

	if rec := post(h, `{"input": "Convert 1 USD to EUR"}`); rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	testHelpers.AssertContains(t, rec.Body.String(), `shopchat_http_requests_total{route="/chatbot",status="500"} 1`)
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	h := newTestServer(t, testHelpers.NewMockLLMClient(), nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := New(config.ServerConfig{Addr: "127.0.0.1:0", ShutdownTimeout: 1}, Deps{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not stop")
	}
}
