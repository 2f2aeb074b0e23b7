package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's Prometheus collectors on a private registry.
// All methods are safe on a nil receiver so metrics can be switched off.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestDuration *prometheus.HistogramVec
	LLMRequestDuration  *prometheus.HistogramVec
	LLMTokens           *prometheus.CounterVec
	ExtractedTasks      prometheus.Counter
	TaskParseFailures   prometheus.Counter
}

// NewMetrics registers the collectors plus Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~32s
			},
			[]string{"method", "route", "status"},
		),
		LLMRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Remote model call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
			},
			[]string{"operation", "model", "outcome"},
		),
		LLMTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Tokens reported by the remote model",
			},
			[]string{"operation", "type"}, // type: prompt, completion
		),
		ExtractedTasks: factory.NewCounter(prometheus.CounterOpts{
			Name: "extracted_tasks_total",
			Help: "Task occurrences returned by task extraction",
		}),
		TaskParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "task_parse_failures_total",
			Help: "Model replies that could not be parsed as a task array",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// ObserveLLM records one remote model call.
func (m *Metrics) ObserveLLM(operation, model, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.LLMRequestDuration.WithLabelValues(operation, model, outcome).Observe(duration.Seconds())
}

// AddUsage accumulates token counters for an operation.
func (m *Metrics) AddUsage(operation string, usage models.Usage) {
	if m == nil {
		return
	}
	if usage.PromptTokens > 0 {
		m.LLMTokens.WithLabelValues(operation, "prompt").Add(float64(usage.PromptTokens))
	}
	if usage.CompletionTokens > 0 {
		m.LLMTokens.WithLabelValues(operation, "completion").Add(float64(usage.CompletionTokens))
	}
}

// RecordExtraction counts task occurrences returned to a caller.
func (m *Metrics) RecordExtraction(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ExtractedTasks.Add(float64(count))
}

// RecordParseFailure counts an unparseable extraction reply.
func (m *Metrics) RecordParseFailure() {
	if m == nil {
		return
	}
	m.TaskParseFailures.Inc()
}
