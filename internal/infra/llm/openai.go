package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAICompatible is a ChatModel for any endpoint speaking the OpenAI chat
// completions protocol. Groq and OpenAI both use it with different base URLs.
type OpenAICompatible struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	caller      caller
}

// NewOpenAICompatible creates a client for model on provider's endpoint.
func NewOpenAICompatible(provider, apiKey, baseURL, model string, cfg Config, limiter *rate.Limiter) *OpenAICompatible {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	slog.Info("initialized chat model",
		slog.String("provider", provider),
		slog.String("model", model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &OpenAICompatible{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		caller:      newCaller(provider, model, cfg, limiter),
	}
}

// NewGroq creates a Groq client.
func NewGroq(apiKey, model string, cfg Config, limiter *rate.Limiter) *OpenAICompatible {
	return NewOpenAICompatible(ProviderGroq, apiKey, cfg.GroqBaseURL, model, cfg, limiter)
}

// NewOpenAI creates an OpenAI client.
func NewOpenAI(apiKey, model string, cfg Config, limiter *rate.Limiter) *OpenAICompatible {
	return NewOpenAICompatible(ProviderOpenAI, apiKey, cfg.OpenAIBaseURL, model, cfg, limiter)
}

// Name implements ChatModel.
func (o *OpenAICompatible) Name() string {
	return o.model
}

// Complete implements ChatModel.
func (o *OpenAICompatible) Complete(ctx context.Context, prompt string) (string, error) {
	return o.caller.complete(ctx, prompt, o.doComplete)
}

func (o *OpenAICompatible) doComplete(ctx context.Context, prompt string) (completion, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		return completion{}, classifyOpenAIError(o.caller.provider, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return completion{}, fmt.Errorf("%s: %w", o.caller.provider, ErrEmptyResponse)
	}

	return completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func classifyOpenAIError(provider string, err error) error {
	wrapped := fmt.Errorf("%s api error: %w", provider, err)

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, wrapped)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(reqErr.HTTPStatusCode, wrapped)
	}
	return wrapped
}
