package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

// Claude is a ChatModel backed by Anthropic's Messages API.
type Claude struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
	caller      caller
}

// NewClaude creates an Anthropic client. SDK retries are disabled; the shared
// retry policy applies instead.
func NewClaude(apiKey, model string, cfg Config, limiter *rate.Limiter) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}

	slog.Info("initialized chat model",
		slog.String("provider", ProviderAnthropic),
		slog.String("model", model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Claude{
		client:      anthropic.NewClient(opts...),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		caller:      newCaller(ProviderAnthropic, model, cfg, limiter),
	}
}

// Name implements ChatModel.
func (c *Claude) Name() string {
	return c.model
}

// Complete implements ChatModel.
func (c *Claude) Complete(ctx context.Context, prompt string) (string, error) {
	return c.caller.complete(ctx, prompt, c.doComplete)
}

func (c *Claude) doComplete(ctx context.Context, prompt string) (completion, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(c.maxTokens),
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		wrapped := fmt.Errorf("claude api error: %w", err)
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return completion{}, statusError(apiErr.StatusCode, wrapped)
		}
		return completion{}, wrapped
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return completion{}, fmt.Errorf("%s: %w", ProviderAnthropic, ErrEmptyResponse)
	}

	return completion{
		Text:         sb.String(),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
