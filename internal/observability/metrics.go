package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service metrics and the registry they are exposed from
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	rounds       prometheus.Histogram
	toolCalls    *prometheus.CounterVec
	toolLatency  *prometheus.HistogramVec
	llmLatency   *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry, including the Go
// runtime and process collectors
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopchat_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		}, []string{"route", "status"}),

		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopchat_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route"}),

		rounds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopchat_function_calling_rounds",
			Help:    "Tool-execution rounds per function calling run",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12},
		}),

		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopchat_tool_invocations_total",
			Help: "Total number of tool invocations by tool and status",
		}, []string{"tool", "status"}),

		toolLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopchat_tool_duration_seconds",
			Help:    "Tool execution latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"tool"}),

		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopchat_llm_request_duration_seconds",
			Help:    "LLM completion latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60},
		}, []string{"provider", "status"}),
	}
}

// Registry exposes the underlying registry (tests gather from it)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request
func (r *Recorder) ObserveHTTPRequest(route string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// ObserveRounds records how many tool rounds a run used
func (r *Recorder) ObserveRounds(rounds int) {
	r.rounds.Observe(float64(rounds))
}

// ObserveToolCall records one tool invocation
func (r *Recorder) ObserveToolCall(tool string, err error, duration time.Duration) {
	r.toolCalls.WithLabelValues(tool, statusLabel(err)).Inc()
	if duration > 0 {
		r.toolLatency.WithLabelValues(tool).Observe(duration.Seconds())
	}
}

// ObserveLLMRequest records one completion call
func (r *Recorder) ObserveLLMRequest(provider string, err error, duration time.Duration) {
	r.llmLatency.WithLabelValues(provider, statusLabel(err)).Observe(duration.Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
