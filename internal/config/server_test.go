package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loader "content-summarizer/internal/pkg/config"
)

func TestDefaultServerConfig_Valid(t *testing.T) {
	cfg := DefaultServerConfig()
	require.NoError(t, cfg.Validate())
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"bad addr", func(c *ServerConfig) { c.Addr = "8080" }, "addr"},
		{"write timeout too short", func(c *ServerConfig) { c.WriteTimeout = c.RequestTimeout }, "must exceed request timeout"},
		{"tiny body", func(c *ServerConfig) { c.MaxBodyBytes = 10 }, "max body bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadServerConfig_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "2m")
	t.Setenv("HTTP_WRITE_TIMEOUT", "3m")
	t.Setenv("HTTP_MAX_BODY_BYTES", "65536")
	t.Setenv("CSP_REPORT_ONLY", "true")
	t.Setenv("VERSION", "1.4.0")

	cfg, err := LoadServerConfig(slog.Default(), nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, 3*time.Minute, cfg.WriteTimeout)
	assert.Equal(t, int64(65536), cfg.MaxBodyBytes)
	assert.True(t, cfg.CSPEnabled)
	assert.True(t, cfg.CSPReportOnly)
	assert.Equal(t, "1.4.0", cfg.Version)
}

func TestLoadServerConfig_FallbackWarns(t *testing.T) {
	t.Setenv("HTTP_ADDR", "not-an-addr")
	t.Setenv("HTTP_IDLE_TIMEOUT", "forever")
	t.Setenv("CSP_ENABLED", "maybe")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	metrics := loader.NewConfigMetrics("server_test", prometheus.NewRegistry())

	cfg, err := LoadServerConfig(logger, metrics)
	require.NoError(t, err)

	d := DefaultServerConfig()
	assert.Equal(t, d.Addr, cfg.Addr)
	assert.Equal(t, d.IdleTimeout, cfg.IdleTimeout)
	assert.True(t, cfg.CSPEnabled)

	assert.Contains(t, buf.String(), "configuration fallback applied")
	assert.Contains(t, buf.String(), "HTTP_ADDR")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("http_addr")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
}

func TestLoadServerConfig_CrossFieldError(t *testing.T) {
	t.Setenv("HTTP_REQUEST_TIMEOUT", "20m")
	t.Setenv("HTTP_WRITE_TIMEOUT", "10m")

	_, err := LoadServerConfig(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server configuration")
}
