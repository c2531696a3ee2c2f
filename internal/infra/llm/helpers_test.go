package llm

import (
	"sync"
	"time"

	"content-summarizer/internal/resilience/retry"
)

// recordingMetrics captures MetricsRecorder calls.
type recordingMetrics struct {
	mu        sync.Mutex
	statuses  []string
	tokens    map[string]int
	truncated int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{tokens: map[string]int{}}
}

func (m *recordingMetrics) RecordRequest(_, _, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *recordingMetrics) RecordTokens(_, kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[kind] += n
}

func (m *recordingMetrics) RecordResponseLength(string, int) {}

func (m *recordingMetrics) RecordPromptTruncated(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.truncated++
}

func (m *recordingMetrics) Statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.statuses...)
}

// testConfig returns a config without throttling and with a short timeout.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimitRPS = 0
	cfg.Timeout = 5 * time.Second
	cfg.MaxPromptRunes = 2000
	return cfg
}

// fast swaps in quick retries and a recording metrics sink.
func fast(c *caller) *recordingMetrics {
	m := newRecordingMetrics()
	c.metrics = m
	c.retryConfig = retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
	return m
}
