// Package llm provides chat model clients for the hosted LLM providers the
// summarizer can use (Groq, OpenAI, Anthropic and Gemini), a catalog of
// selectable models and a registry that shares one client per model.
//
// Every client wraps its provider call in a rate limiter, the circuit breaker
// and retry policy from internal/resilience, and records Prometheus metrics.
package llm

import (
	"context"
	"errors"
)

// Provider identifiers used in the catalog and in metric labels.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNoop      = "noop"
)

// Sentinel errors returned by this package.
var (
	// ErrProviderNotConfigured indicates the model's provider has no API key.
	ErrProviderNotConfigured = errors.New("LLM provider not configured")

	// ErrUnknownModel indicates the model is not in the catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrUnsupportedProvider indicates a catalog entry names a provider this
	// package has no client for.
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")

	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("LLM returned empty response")
)

// ChatModel completes a single prompt. Implementations are safe for
// concurrent use and do not stream.
type ChatModel interface {
	// Complete sends prompt as one user message and returns the reply text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider model identifier, e.g. "llama-3.1-8b-instant".
	Name() string
}
