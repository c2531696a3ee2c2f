package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubModel struct{ name string }

func (s *stubModel) Complete(context.Context, string) (string, error) { return "stub", nil }
func (s *stubModel) Name() string                                     { return s.name }

// countingFactory builds stub models and counts constructions.
func countingFactory(calls *atomic.Int32, delay time.Duration) Factory {
	return func(_ context.Context, m Model, _ string, _ *rate.Limiter) (ChatModel, error) {
		calls.Add(1)
		time.Sleep(delay)
		return &stubModel{name: m.Name}, nil
	}
}

func TestRegistry_Get(t *testing.T) {
	cfg := testConfig()
	cfg.GroqAPIKey = "gsk_test"

	var calls atomic.Int32
	r := NewRegistry(cfg, DefaultCatalog(), WithFactory(countingFactory(&calls, 0)))

	first, err := r.Get(context.Background(), "llama-3.1-8b-instant")
	require.NoError(t, err)
	second, err := r.Get(context.Background(), "LLAMA-3.1-8B-INSTANT")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	other, err := r.Get(context.Background(), "gemma-7b-it")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRegistry_DefaultModel(t *testing.T) {
	cfg := testConfig()
	cfg.GroqAPIKey = "gsk_test"
	var calls atomic.Int32
	r := NewRegistry(cfg, DefaultCatalog(), WithFactory(countingFactory(&calls, 0)))

	m, err := r.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemma-7b-it", m.Name())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry(testConfig(), DefaultCatalog())

	_, err := r.Get(context.Background(), "gpt-9")
	assert.ErrorIs(t, err, ErrUnknownModel)

	_, err = r.Get(context.Background(), "llama-3.1-8b-instant")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
	assert.Contains(t, err.Error(), "groq")
}

func TestRegistry_ConcurrentFirstCallsShareConstruction(t *testing.T) {
	cfg := testConfig()
	cfg.GroqAPIKey = "gsk_test"

	var calls atomic.Int32
	r := NewRegistry(cfg, DefaultCatalog(), WithFactory(countingFactory(&calls, 50*time.Millisecond)))

	const n = 20
	results := make([]ChatModel, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := r.Get(context.Background(), "llama-3.1-70b-versatile")
			assert.NoError(t, err)
			results[i] = m
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, m := range results {
		assert.Same(t, results[0], m)
	}
}

func TestRegistry_FactoryErrorNotCached(t *testing.T) {
	cfg := testConfig()
	cfg.GroqAPIKey = "gsk_test"

	var calls atomic.Int32
	r := NewRegistry(cfg, DefaultCatalog(), WithFactory(func(_ context.Context, m Model, _ string, _ *rate.Limiter) (ChatModel, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("transient")
		}
		return &stubModel{name: m.Name}, nil
	}))

	_, err := r.Get(context.Background(), "gemma-7b-it")
	require.Error(t, err)
	m, err := r.Get(context.Background(), "gemma-7b-it")
	require.NoError(t, err)
	assert.Equal(t, "gemma-7b-it", m.Name())
}

func TestRegistry_NoopMode(t *testing.T) {
	cfg := testConfig()
	cfg.Noop = true
	r := NewRegistry(cfg, DefaultCatalog())

	m, err := r.Get(context.Background(), "llama-3.1-8b-instant")
	require.NoError(t, err)
	assert.IsType(t, &NoOp{}, m)
	assert.Equal(t, "llama-3.1-8b-instant", m.Name())
	assert.True(t, r.Configured(ProviderGemini))
}

func TestRegistry_DefaultFactory(t *testing.T) {
	catalog, err := NewCatalog([]Model{
		{Name: "llama-3.1-8b-instant", Provider: ProviderGroq},
		{Name: "gpt-4o-mini", Provider: ProviderOpenAI},
		{Name: "claude-sonnet-4-5", Provider: ProviderAnthropic},
		{Name: "gemini-2.0-flash", Provider: ProviderGemini},
	}, "")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.GroqAPIKey = "gsk_test"
	cfg.OpenAIAPIKey = "sk-test"
	cfg.AnthropicAPIKey = "sk-ant-test"
	cfg.GeminiAPIKey = "AIza-test"
	r := NewRegistry(cfg, catalog)

	tests := []struct {
		model string
		want  ChatModel
	}{
		{model: "llama-3.1-8b-instant", want: &OpenAICompatible{}},
		{model: "gpt-4o-mini", want: &OpenAICompatible{}},
		{model: "claude-sonnet-4-5", want: &Claude{}},
		{model: "gemini-2.0-flash", want: &Gemini{}},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			m, err := r.Get(context.Background(), tt.model)
			require.NoError(t, err)
			assert.IsType(t, tt.want, m)
			assert.Equal(t, tt.model, m.Name())
		})
	}
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, fingerprint("gsk_one"), fingerprint("gsk_one"))
	assert.NotEqual(t, fingerprint("gsk_one"), fingerprint("gsk_two"))
	assert.Len(t, fingerprint("gsk_one"), 16)
	assert.NotContains(t, fingerprint("gsk_one"), "gsk")
}

func TestLimiterSet(t *testing.T) {
	disabled := newLimiterSet(0, 1)
	assert.Nil(t, disabled.get(ProviderGroq))

	s := newLimiterSet(5, 2)
	groq := s.get(ProviderGroq)
	require.NotNil(t, groq)
	assert.Same(t, groq, s.get(ProviderGroq))
	assert.NotSame(t, groq, s.get(ProviderOpenAI))
	assert.Equal(t, rate.Limit(5), groq.Limit())
	assert.Equal(t, 2, groq.Burst())
}
