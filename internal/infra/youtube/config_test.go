package youtube_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-summarizer/internal/infra/youtube"
)

func TestDefaultConfig(t *testing.T) {
	cfg := youtube.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, youtube.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, []string{"en"}, cfg.Languages)
	assert.Equal(t, "Mozilla/5.0", cfg.UserAgent)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*youtube.Config)
		wantErr string
	}{
		{name: "relative base URL", mutate: func(c *youtube.Config) { c.BaseURL = "/watch" }, wantErr: "base URL"},
		{name: "ftp base URL", mutate: func(c *youtube.Config) { c.BaseURL = "ftp://youtube.com" }, wantErr: "base URL"},
		{name: "empty user agent", mutate: func(c *youtube.Config) { c.UserAgent = " " }, wantErr: "user agent"},
		{name: "timeout too short", mutate: func(c *youtube.Config) { c.Timeout = 100 * time.Millisecond }, wantErr: "timeout"},
		{name: "page size too small", mutate: func(c *youtube.Config) { c.MaxPageSize = 100 }, wantErr: "max page size"},
		{name: "transcript size too small", mutate: func(c *youtube.Config) { c.MaxTranscriptSize = 10 }, wantErr: "max transcript size"},
		{name: "no languages", mutate: func(c *youtube.Config) { c.Languages = nil }, wantErr: "language"},
		{name: "negative runes", mutate: func(c *youtube.Config) { c.MaxContentRunes = -1 }, wantErr: "max content runes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := youtube.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("YOUTUBE_BASE_URL", "http://localhost:9999/")
	t.Setenv("YOUTUBE_USER_AGENT", "SummaryBot/1.0")
	t.Setenv("YOUTUBE_TIMEOUT", "5s")
	t.Setenv("YOUTUBE_LANGUAGES", "en-US, en")
	t.Setenv("YOUTUBE_MAX_CONTENT_RUNES", "5000")

	cfg, err := youtube.LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, "SummaryBot/1.0", cfg.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"en-US", "en"}, cfg.Languages)
	assert.Equal(t, 5000, cfg.MaxContentRunes)
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	t.Setenv("YOUTUBE_BASE_URL", "not a url")

	_, err := youtube.LoadConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
