package llm

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/shopchat/internal/config"
)

func noSleep(ctx context.Context, d time.Duration) error {
	return nil
}

func TestRetryClient_RetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls int32
	var bodies []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))

		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rc := NewRetryClient(&RetryConfig{
		MaxAttempts:       3,
		Multiplier:        1,
		MaxWaitPerAttempt: time.Second,
		MaxTotalWait:      time.Minute,
	})
	rc.sleep = noSleep

	req, _ := http.NewRequest(http.MethodPost, server.URL, bytes.NewReader([]byte(`{"q":1}`)))
	resp, err := rc.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	for i, b := range bodies {
		if b != `{"q":1}` {
			t.Errorf("Attempt %d sent body %q, expected the original body", i+1, b)
		}
	}
}

func TestRetryClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	rc := NewRetryClient(nil)
	rc.sleep = noSleep

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := rc.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
	if calls != 1 {
		t.Errorf("Expected 1 attempt, got %d", calls)
	}
}

func TestRetryClient_ReturnsLastResponseWhenExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	rc := NewRetryClient(&RetryConfig{MaxAttempts: 2, Multiplier: 1, MaxWaitPerAttempt: time.Second, MaxTotalWait: time.Minute})
	rc.sleep = noSleep

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := rc.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusTooManyRequests || string(body) != "slow down" {
		t.Errorf("Expected last 429 response to be returned, got %d %q", resp.StatusCode, body)
	}
	if calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls)
	}
}

func TestRetryClient_ContextCancelledDuringWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())

	rc := NewRetryClient(nil)
	rc.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	_, err := rc.Do(req)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRetryClient_CalculateWaitTime(t *testing.T) {
	rc := NewRetryClient(&RetryConfig{MaxAttempts: 5, Multiplier: 1, MaxWaitPerAttempt: 3 * time.Second, MaxTotalWait: time.Minute})

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 3 * time.Second},
		{5, 3 * time.Second},
	}

	for _, tt := range tests {
		if got := rc.calculateWaitTime(tt.attempt); got != tt.expected {
			t.Errorf("calculateWaitTime(%d) = %v, expected %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestRetryConfigFrom(t *testing.T) {
	rc := RetryConfigFrom(config.RetryConfig{MaxAttempts: 5, MaxWaitPerAttempt: 2})
	if rc.MaxAttempts != 5 {
		t.Errorf("Expected MaxAttempts 5, got %d", rc.MaxAttempts)
	}
	if rc.Multiplier != 1 {
		t.Errorf("Expected default Multiplier 1, got %d", rc.Multiplier)
	}
	if rc.MaxWaitPerAttempt != 2*time.Second {
		t.Errorf("Expected MaxWaitPerAttempt 2s, got %v", rc.MaxWaitPerAttempt)
	}
	if rc.MaxTotalWait != 60*time.Second {
		t.Errorf("Expected default MaxTotalWait 60s, got %v", rc.MaxTotalWait)
	}
}
