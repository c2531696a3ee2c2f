// Package config assembles the HTTP server's settings.
package config

import (
	"fmt"
	"log/slog"
	"time"

	loader "content-summarizer/internal/pkg/config"
)

// ServerConfig holds the HTTP server settings of cmd/api.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string

	// ReadHeaderTimeout bounds header reads (Slowloris).
	// Default: 10s
	ReadHeaderTimeout time.Duration

	// ReadTimeout bounds reading the whole request.
	// Default: 30s
	ReadTimeout time.Duration

	// RequestTimeout bounds the summarize routes. Summaries of long videos
	// take minutes, so it must cover SUMMARY_TIMEOUT.
	// Default: 6m
	RequestTimeout time.Duration

	// WriteTimeout must exceed RequestTimeout so the 504 body can be written.
	// Default: 7m
	WriteTimeout time.Duration

	// IdleTimeout closes idle keep-alive connections.
	// Default: 120s
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration

	// MaxBodyBytes caps request bodies, including posted summaries for download.
	// Default: 1MB
	MaxBodyBytes int64

	// CSPEnabled and CSPReportOnly control Content-Security-Policy headers.
	// Default: enabled, enforcing
	CSPEnabled    bool
	CSPReportOnly bool

	// Version is reported by /health.
	// Default: "dev"
	Version string
}

// DefaultServerConfig returns the defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		RequestTimeout:    6 * time.Minute,
		WriteTimeout:      7 * time.Minute,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		MaxBodyBytes:      1 << 20,
		CSPEnabled:        true,
		CSPReportOnly:     false,
		Version:           "dev",
	}
}

// Validate checks cross-field constraints. Single fields are already
// validated while loading.
func (c *ServerConfig) Validate() error {
	if err := loader.ValidateListenAddr(c.Addr); err != nil {
		return fmt.Errorf("addr: %w", err)
	}
	if c.WriteTimeout <= c.RequestTimeout {
		return fmt.Errorf("write timeout (%v) must exceed request timeout (%v)", c.WriteTimeout, c.RequestTimeout)
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("max body bytes must be at least 1024, got %d", c.MaxBodyBytes)
	}
	return nil
}

// LoadServerConfig reads the server settings fail-open: an unusable value is
// replaced by its default, logged as a warning and counted in metrics
// (nil metrics skips counting).
//
//   - HTTP_ADDR (default ":8080")
//   - HTTP_READ_HEADER_TIMEOUT, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT
//   - HTTP_REQUEST_TIMEOUT (default 6m)
//   - HTTP_SHUTDOWN_TIMEOUT (default 30s)
//   - HTTP_MAX_BODY_BYTES (default 1048576)
//   - CSP_ENABLED (default true), CSP_REPORT_ONLY (default false)
//   - VERSION (default "dev")
//
// The cross-field checks of Validate are returned as an error.
func LoadServerConfig(logger *slog.Logger, metrics *loader.ConfigMetrics) (ServerConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := DefaultServerConfig()
	var fallbacks []string

	track := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallbacks = append(fallbacks, field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}
	duration := func(field, key string, def, min, max time.Duration) time.Duration {
		r := loader.LoadDuration(key, def, func(v time.Duration) error {
			return loader.ValidateDuration(v, min, max)
		})
		track(field, r.Warning, r.FallbackApplied)
		return r.Value
	}

	addr := loader.LoadString("HTTP_ADDR", d.Addr, loader.ValidateListenAddr)
	track("http_addr", addr.Warning, addr.FallbackApplied)

	body := loader.LoadInt64("HTTP_MAX_BODY_BYTES", d.MaxBodyBytes, func(v int64) error {
		if v < 1024 || v > 64<<20 {
			return fmt.Errorf("must be between 1KiB and 64MiB")
		}
		return nil
	})
	track("max_body_bytes", body.Warning, body.FallbackApplied)

	cspEnabled := loader.LoadBool("CSP_ENABLED", d.CSPEnabled)
	track("csp_enabled", cspEnabled.Warning, cspEnabled.FallbackApplied)
	cspReportOnly := loader.LoadBool("CSP_REPORT_ONLY", d.CSPReportOnly)
	track("csp_report_only", cspReportOnly.Warning, cspReportOnly.FallbackApplied)

	version := loader.LoadString("VERSION", d.Version, nil)

	cfg := ServerConfig{
		Addr:              addr.Value,
		ReadHeaderTimeout: duration("read_header_timeout", "HTTP_READ_HEADER_TIMEOUT", d.ReadHeaderTimeout, time.Second, time.Minute),
		ReadTimeout:       duration("read_timeout", "HTTP_READ_TIMEOUT", d.ReadTimeout, time.Second, 10*time.Minute),
		RequestTimeout:    duration("request_timeout", "HTTP_REQUEST_TIMEOUT", d.RequestTimeout, 10*time.Second, time.Hour),
		WriteTimeout:      duration("write_timeout", "HTTP_WRITE_TIMEOUT", d.WriteTimeout, 10*time.Second, time.Hour),
		IdleTimeout:       duration("idle_timeout", "HTTP_IDLE_TIMEOUT", d.IdleTimeout, time.Second, 30*time.Minute),
		ShutdownTimeout:   duration("shutdown_timeout", "HTTP_SHUTDOWN_TIMEOUT", d.ShutdownTimeout, time.Second, 10*time.Minute),
		MaxBodyBytes:      body.Value,
		CSPEnabled:        cspEnabled.Value,
		CSPReportOnly:     cspReportOnly.Value,
		Version:           version.Value,
	}

	if metrics != nil {
		metrics.RecordLoad(fallbacks)
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}
