package agents

import (
	"time"
)

// FailurePolicy decides what an LLM-driven operation does when the provider
// fails or the model's output does not validate
type FailurePolicy int

const (
	// PolicyPropagate returns the failure to the caller
	PolicyPropagate FailurePolicy = iota
	// PolicyReturnEmpty logs the failure and reports an empty result
	PolicyReturnEmpty
)

func (p FailurePolicy) String() string {
	switch p {
	case PolicyPropagate:
		return "propagate"
	case PolicyReturnEmpty:
		return "return_empty"
	default:
		return "unknown"
	}
}

// Metrics receives orchestrator measurements. observability.Recorder
// implements it; a nil Metrics disables recording.
type Metrics interface {
	ObserveRounds(rounds int)
	ObserveToolCall(tool string, err error, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveRounds(int)                            {}
func (nopMetrics) ObserveToolCall(string, error, time.Duration) {}
