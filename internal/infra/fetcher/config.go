package fetcher

import (
	"fmt"
	"time"

	"content-summarizer/pkg/config"
)

// DefaultUserAgent is a browser-like agent; many sites refuse unknown bots.
const DefaultUserAgent = "Mozilla/5.0"

// ContentFetchConfig controls how article pages are downloaded and parsed.
type ContentFetchConfig struct {
	// Timeout bounds a single page download including redirects.
	// Default: 15s
	Timeout time.Duration

	// MaxBodySize is the maximum response size in bytes, enforced while reading.
	// Default: 10MB
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow. Every target
	// is re-validated.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects hosts that resolve to, or connect to, private
	// addresses. Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	// Default: "Mozilla/5.0"
	UserAgent string

	// InsecureSkipVerify disables TLS certificate verification for sites with
	// broken chains.
	// Default: false
	InsecureSkipVerify bool

	// MaxContentRunes truncates extracted text. Zero disables truncation.
	// Default: 200000
	MaxContentRunes int
}

// DefaultConfig returns production defaults.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:            15 * time.Second,
		MaxBodySize:        10 * 1024 * 1024,
		MaxRedirects:       5,
		DenyPrivateIPs:     true,
		UserAgent:          DefaultUserAgent,
		InsecureSkipVerify: false,
		MaxContentRunes:    200000,
	}
}

// Validate checks that the configuration is usable.
func (c *ContentFetchConfig) Validate() error {
	if err := config.ValidateDurationRange(c.Timeout, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	if c.MaxContentRunes < 0 {
		return fmt.Errorf("max content runes must be non-negative, got %d", c.MaxContentRunes)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from CONTENT_FETCH_* variables and validates it.
//
//   - CONTENT_FETCH_TIMEOUT (default 15s)
//   - CONTENT_FETCH_MAX_BODY_SIZE (bytes, default 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS (default 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS (default true)
//   - CONTENT_FETCH_USER_AGENT (default "Mozilla/5.0")
//   - CONTENT_FETCH_INSECURE_SKIP_VERIFY (default false)
//   - CONTENT_FETCH_MAX_CONTENT_RUNES (default 200000)
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	d := DefaultConfig()
	cfg := ContentFetchConfig{
		Timeout:            config.GetEnvDuration("CONTENT_FETCH_TIMEOUT", d.Timeout),
		MaxBodySize:        int64(config.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(d.MaxBodySize))),
		MaxRedirects:       config.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", d.MaxRedirects),
		DenyPrivateIPs:     config.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", d.DenyPrivateIPs),
		UserAgent:          config.GetEnvString("CONTENT_FETCH_USER_AGENT", d.UserAgent),
		InsecureSkipVerify: config.GetEnvBool("CONTENT_FETCH_INSECURE_SKIP_VERIFY", d.InsecureSkipVerify),
		MaxContentRunes:    config.GetEnvInt("CONTENT_FETCH_MAX_CONTENT_RUNES", d.MaxContentRunes),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
