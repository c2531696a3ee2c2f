package llm

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiStatus pulls the HTTP status out of genai API error messages
// ("Error 429, Message: ...").
var geminiStatus = regexp.MustCompile(`Error (\d{3})\b`)

// Gemini is a ChatModel backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	caller caller
}

// NewGemini creates a Gemini client.
func NewGemini(ctx context.Context, apiKey, model string, cfg Config, limiter *rate.Limiter) (*Gemini, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	temperature := float32(cfg.Temperature)

	slog.Info("initialized chat model",
		slog.String("provider", ProviderGemini),
		slog.String("model", model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Gemini{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			MaxOutputTokens: int32(cfg.MaxTokens),
			Temperature:     &temperature,
		},
		caller: newCaller(ProviderGemini, model, cfg, limiter),
	}, nil
}

// Name implements ChatModel.
func (g *Gemini) Name() string {
	return g.model
}

// Complete implements ChatModel.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	return g.caller.complete(ctx, prompt, g.doComplete)
}

func (g *Gemini) doComplete(ctx context.Context, prompt string) (completion, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		wrapped := fmt.Errorf("gemini api error: %w", err)
		if m := geminiStatus.FindStringSubmatch(err.Error()); m != nil {
			status, _ := strconv.Atoi(m[1])
			return completion{}, statusError(status, wrapped)
		}
		return completion{}, wrapped
	}

	var sb strings.Builder
	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	if sb.Len() == 0 {
		return completion{}, fmt.Errorf("%s: %w", ProviderGemini, ErrEmptyResponse)
	}

	out := completion{Text: sb.String()}
	if result.UsageMetadata != nil {
		out.InputTokens = int(result.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
