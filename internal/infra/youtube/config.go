package youtube

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"content-summarizer/pkg/config"
)

// DefaultBaseURL is the origin watch pages are fetched from.
const DefaultBaseURL = "https://www.youtube.com"

// Config controls how watch pages and captions are fetched.
type Config struct {
	// BaseURL is the YouTube origin. Tests point it at a local server.
	// Default: https://www.youtube.com
	BaseURL string

	// UserAgent is sent with every request.
	// Default: "Mozilla/5.0"
	UserAgent string

	// Timeout bounds each HTTP request.
	// Default: 20s
	Timeout time.Duration

	// MaxPageSize caps the watch page download in bytes.
	// Default: 8MB
	MaxPageSize int64

	// MaxTranscriptSize caps the caption download in bytes.
	// Default: 2MB
	MaxTranscriptSize int64

	// Languages lists caption languages in order of preference.
	// Default: ["en"]
	Languages []string

	// MaxContentRunes truncates the transcript. Zero disables truncation.
	// Default: 200000
	MaxContentRunes int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         "Mozilla/5.0",
		Timeout:           20 * time.Second,
		MaxPageSize:       8 * 1024 * 1024,
		MaxTranscriptSize: 2 * 1024 * 1024,
		Languages:         []string{"en"},
		MaxContentRunes:   200000,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user agent must not be empty")
	}
	if err := config.ValidateDurationRange(c.Timeout, time.Second, 2*time.Minute); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if c.MaxPageSize < 64*1024 {
		return fmt.Errorf("max page size must be at least 65536 bytes, got %d", c.MaxPageSize)
	}
	if c.MaxTranscriptSize < 1024 {
		return fmt.Errorf("max transcript size must be at least 1024 bytes, got %d", c.MaxTranscriptSize)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("at least one caption language is required")
	}
	if c.MaxContentRunes < 0 {
		return fmt.Errorf("max content runes must be non-negative, got %d", c.MaxContentRunes)
	}
	return nil
}

// LoadConfigFromEnv loads configuration from YOUTUBE_* variables and validates it.
//
//   - YOUTUBE_BASE_URL (default https://www.youtube.com)
//   - YOUTUBE_USER_AGENT (default "Mozilla/5.0")
//   - YOUTUBE_TIMEOUT (default 20s)
//   - YOUTUBE_MAX_PAGE_SIZE (bytes, default 8388608)
//   - YOUTUBE_MAX_TRANSCRIPT_SIZE (bytes, default 2097152)
//   - YOUTUBE_LANGUAGES (comma separated, default "en")
//   - YOUTUBE_MAX_CONTENT_RUNES (default 200000)
func LoadConfigFromEnv() (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		BaseURL:           strings.TrimRight(config.GetEnvString("YOUTUBE_BASE_URL", d.BaseURL), "/"),
		UserAgent:         config.GetEnvString("YOUTUBE_USER_AGENT", d.UserAgent),
		Timeout:           config.GetEnvDuration("YOUTUBE_TIMEOUT", d.Timeout),
		MaxPageSize:       int64(config.GetEnvInt("YOUTUBE_MAX_PAGE_SIZE", int(d.MaxPageSize))),
		MaxTranscriptSize: int64(config.GetEnvInt("YOUTUBE_MAX_TRANSCRIPT_SIZE", int(d.MaxTranscriptSize))),
		Languages:         config.GetEnvStringList("YOUTUBE_LANGUAGES", d.Languages),
		MaxContentRunes:   config.GetEnvInt("YOUTUBE_MAX_CONTENT_RUNES", d.MaxContentRunes),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
