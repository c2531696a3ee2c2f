package llm

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes recorded by MetricsRecorder.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusCircuitOpen = "circuit_open"
	StatusRateLimited = "rate_limited"
)

// MetricsRecorder records provider call metrics. It exists so tests can
// assert on calls without scraping Prometheus.
type MetricsRecorder interface {
	// RecordRequest records one completion attempt and its outcome.
	RecordRequest(provider, model, status string, duration time.Duration)

	// RecordTokens records prompt ("input") or completion ("output") tokens.
	RecordTokens(provider, kind string, n int)

	// RecordResponseLength records the reply length in runes.
	RecordResponseLength(provider string, runes int)

	// RecordPromptTruncated counts prompts cut to MaxPromptRunes.
	RecordPromptTruncated(provider string)
}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	tokens          *prometheus.CounterVec
	responseLength  *prometheus.HistogramVec
	promptTruncated *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// registerOrExisting registers c, or returns the collector already registered
// under the same descriptor.
func registerOrExisting[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusMetrics returns the process-wide recorder, registering its
// collectors on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "LLM completion attempts by provider, model and status",
			}, []string{"provider", "model", "status"})),
			duration: registerOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Latency of LLM completion calls",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"provider"})),
			tokens: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Tokens reported by providers, by kind (input/output)",
			}, []string{"provider", "kind"})),
			responseLength: registerOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "llm_response_length_characters",
				Help:    "Length of LLM replies in characters (Unicode runes)",
				Buckets: []float64{100, 300, 500, 1000, 2000, 4000, 8000},
			}, []string{"provider"})),
			promptTruncated: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_prompt_truncated_total",
				Help: "Prompts truncated before being sent",
			}, []string{"provider"})),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRequest(provider, model, status string, duration time.Duration) {
	p.requests.WithLabelValues(provider, model, status).Inc()
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordTokens implements MetricsRecorder.
func (p *PrometheusMetrics) RecordTokens(provider, kind string, n int) {
	if n > 0 {
		p.tokens.WithLabelValues(provider, kind).Add(float64(n))
	}
}

// RecordResponseLength implements MetricsRecorder.
func (p *PrometheusMetrics) RecordResponseLength(provider string, runes int) {
	p.responseLength.WithLabelValues(provider).Observe(float64(runes))
}

// RecordPromptTruncated implements MetricsRecorder.
func (p *PrometheusMetrics) RecordPromptTruncated(provider string) {
	p.promptTruncated.WithLabelValues(provider).Inc()
}
