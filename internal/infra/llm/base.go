package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"content-summarizer/internal/resilience/circuitbreaker"
	"content-summarizer/internal/resilience/retry"
	"content-summarizer/internal/utils/text"
)

// completion is one raw provider reply.
type completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// callFunc performs a single provider request without retries.
type callFunc func(ctx context.Context, prompt string) (completion, error)

// caller holds the reliability and observability plumbing shared by every
// provider client.
type caller struct {
	provider       string
	model          string
	timeout        time.Duration
	maxPromptRunes int
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	limiter        *rate.Limiter
	metrics        MetricsRecorder
}

func newCaller(provider, model string, cfg Config, limiter *rate.Limiter) caller {
	cbConfig := circuitbreaker.LLMConfig(provider)
	cbConfig.IsSuccessful = func(err error) bool {
		return err == nil || isClientError(err)
	}
	return caller{
		provider:       provider,
		model:          model,
		timeout:        cfg.Timeout,
		maxPromptRunes: cfg.MaxPromptRunes,
		circuitBreaker: circuitbreaker.New(cbConfig),
		retryConfig:    retry.AIAPIConfig(),
		limiter:        limiter,
		metrics:        NewPrometheusMetrics(),
	}
}

// complete runs call with truncation, rate limiting, retry (outside) and the
// circuit breaker (inside), recording metrics for every attempt.
func (c *caller) complete(ctx context.Context, prompt string, call callFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s completion canceled: %w", c.provider, err)
	}

	prompt, truncated := text.Truncate(prompt, c.maxPromptRunes)
	if truncated {
		c.metrics.RecordPromptTruncated(c.provider)
		slog.WarnContext(ctx, "prompt truncated",
			slog.String("provider", c.provider),
			slog.String("model", c.model),
			slog.Int("limit", c.maxPromptRunes))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := retry.Do(ctx, c.retryConfig, func() (string, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				c.metrics.RecordRequest(c.provider, c.model, StatusRateLimited, 0)
				return "", fmt.Errorf("rate limiter: %w", err)
			}
		}

		start := time.Now()
		res, err := circuitbreaker.Run(c.circuitBreaker, func() (completion, error) {
			return call(ctx, prompt)
		})
		duration := time.Since(start)

		switch {
		case circuitbreaker.IsOpenError(err):
			c.metrics.RecordRequest(c.provider, c.model, StatusCircuitOpen, duration)
			slog.WarnContext(ctx, "llm circuit breaker open, request rejected",
				slog.String("circuit", c.circuitBreaker.Name()),
				slog.String("state", c.circuitBreaker.State().String()))
			return "", fmt.Errorf("%s unavailable: %w", c.provider, err)
		case err != nil:
			c.metrics.RecordRequest(c.provider, c.model, StatusError, duration)
			slog.WarnContext(ctx, "llm call failed",
				slog.String("provider", c.provider),
				slog.String("model", c.model),
				slog.Duration("duration", duration),
				slog.Any("error", err))
			return "", err
		}

		c.metrics.RecordRequest(c.provider, c.model, StatusSuccess, duration)
		c.metrics.RecordTokens(c.provider, "input", res.InputTokens)
		c.metrics.RecordTokens(c.provider, "output", res.OutputTokens)
		c.metrics.RecordResponseLength(c.provider, text.CountRunes(res.Text))

		slog.DebugContext(ctx, "llm call completed",
			slog.String("provider", c.provider),
			slog.String("model", c.model),
			slog.Int("input_tokens", res.InputTokens),
			slog.Int("output_tokens", res.OutputTokens),
			slog.Duration("duration", duration))
		return res.Text, nil
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", c.provider, err)
	}
	return reply, nil
}

// isClientError reports 4xx failures other than 408/429: bad keys or bad
// requests that retrying or tripping the breaker cannot fix.
func isClientError(err error) bool {
	if errors.Is(err, ErrEmptyResponse) {
		return true
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 &&
			httpErr.StatusCode != http.StatusRequestTimeout && httpErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// statusError attaches an HTTP status to a provider error so retry and the
// breaker can classify it.
func statusError(status int, err error) error {
	if status == 0 {
		return err
	}
	return fmt.Errorf("%w: %w", &retry.HTTPError{StatusCode: status, Message: http.StatusText(status)}, err)
}
