package llm

import (
	"fmt"
	"strings"
	"time"

	"content-summarizer/pkg/config"
)

// Default provider endpoints. Groq speaks the OpenAI wire protocol.
const (
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// Config holds credentials and call parameters shared by all providers.
type Config struct {
	// API keys, read from the deployment's secret store via the environment.
	GroqAPIKey      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Base URLs. Empty Anthropic/Gemini values use the SDK default.
	GroqBaseURL      string
	OpenAIBaseURL    string
	AnthropicBaseURL string
	GeminiBaseURL    string

	// Timeout bounds a single completion call.
	// Default: 60s
	Timeout time.Duration

	// MaxTokens caps the length of each reply.
	// Default: 1024
	MaxTokens int

	// Temperature is the sampling temperature.
	// Default: 0.7
	Temperature float64

	// MaxPromptRunes truncates oversize prompts before they are sent.
	// Default: 24000
	MaxPromptRunes int

	// RateLimitRPS and RateLimitBurst throttle outbound calls per provider.
	// Zero RPS disables throttling.
	// Default: 2 rps, burst 4
	RateLimitRPS   float64
	RateLimitBurst int

	// ModelsFile optionally points at a YAML model catalog, reloaded on change.
	ModelsFile string

	// Noop replaces every provider with the offline NoOp model.
	Noop bool
}

// DefaultConfig returns defaults without credentials.
func DefaultConfig() Config {
	return Config{
		GroqBaseURL:    DefaultGroqBaseURL,
		OpenAIBaseURL:  DefaultOpenAIBaseURL,
		Timeout:        60 * time.Second,
		MaxTokens:      1024,
		Temperature:    0.7,
		MaxPromptRunes: 24000,
		RateLimitRPS:   2,
		RateLimitBurst: 4,
	}
}

// APIKey returns the configured key for provider.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case ProviderGroq:
		return c.GroqAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := config.ValidateDurationRange(c.Timeout, time.Second, 10*time.Minute); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.MaxPromptRunes < 1000 {
		return fmt.Errorf("max prompt runes must be at least 1000, got %d", c.MaxPromptRunes)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit rps must be non-negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1, got %d", c.RateLimitBurst)
	}
	for name, u := range map[string]string{"groq": c.GroqBaseURL, "openai": c.OpenAIBaseURL} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s base URL must be http(s), got %q", name, u)
		}
	}
	return nil
}

// LoadConfig loads configuration from the environment and validates it.
//
//   - GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY
//   - LLM_GROQ_BASE_URL, LLM_OPENAI_BASE_URL, LLM_ANTHROPIC_BASE_URL, LLM_GEMINI_BASE_URL
//   - LLM_TIMEOUT (default 60s)
//   - LLM_MAX_TOKENS (default 1024)
//   - LLM_TEMPERATURE (default 0.7)
//   - LLM_MAX_PROMPT_RUNES (default 24000)
//   - LLM_RATE_LIMIT_RPS, LLM_RATE_LIMIT_BURST (default 2, 4)
//   - MODELS_FILE (optional YAML catalog)
//   - LLM_PROVIDER_NOOP (default false)
func LoadConfig() (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		GroqAPIKey:       config.GetEnvString("GROQ_API_KEY", ""),
		OpenAIAPIKey:     config.GetEnvString("OPENAI_API_KEY", ""),
		AnthropicAPIKey:  config.GetEnvString("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:     config.GetEnvString("GEMINI_API_KEY", ""),
		GroqBaseURL:      config.GetEnvString("LLM_GROQ_BASE_URL", d.GroqBaseURL),
		OpenAIBaseURL:    config.GetEnvString("LLM_OPENAI_BASE_URL", d.OpenAIBaseURL),
		AnthropicBaseURL: config.GetEnvString("LLM_ANTHROPIC_BASE_URL", ""),
		GeminiBaseURL:    config.GetEnvString("LLM_GEMINI_BASE_URL", ""),
		Timeout:          config.GetEnvDuration("LLM_TIMEOUT", d.Timeout),
		MaxTokens:        config.GetEnvInt("LLM_MAX_TOKENS", d.MaxTokens),
		Temperature:      config.GetEnvFloat("LLM_TEMPERATURE", d.Temperature),
		MaxPromptRunes:   config.GetEnvInt("LLM_MAX_PROMPT_RUNES", d.MaxPromptRunes),
		RateLimitRPS:     config.GetEnvFloat("LLM_RATE_LIMIT_RPS", d.RateLimitRPS),
		RateLimitBurst:   config.GetEnvInt("LLM_RATE_LIMIT_BURST", d.RateLimitBurst),
		ModelsFile:       config.GetEnvString("MODELS_FILE", ""),
		Noop:             config.GetEnvBool("LLM_PROVIDER_NOOP", false),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid LLM configuration: %w", err)
	}
	return cfg, nil
}
