package summarize

import (
	"fmt"
	"time"

	"content-summarizer/internal/utils/text"
	"content-summarizer/pkg/config"
)

// Config controls chunking and the overall run deadline.
type Config struct {
	// ChunkSize is the maximum number of runes per chunk.
	// Default: 1000
	ChunkSize int

	// ChunkOverlap is the number of runes shared by adjacent chunks.
	// Default: 100
	ChunkOverlap int

	// Timeout bounds a whole run, extraction and every refine step included.
	// Default: 5m
	Timeout time.Duration
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    text.DefaultChunkSize,
		ChunkOverlap: text.DefaultChunkOverlap,
		Timeout:      5 * time.Minute,
	}
}

// Validate checks the chunking parameters and timeout.
func (c Config) Validate() error {
	if _, err := text.NewSplitter(c.ChunkSize, c.ChunkOverlap); err != nil {
		return err
	}
	if err := config.ValidateDurationRange(c.Timeout, 10*time.Second, 30*time.Minute); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	return nil
}

// LoadConfig reads CHUNK_SIZE, CHUNK_OVERLAP and SUMMARY_TIMEOUT.
func LoadConfig() (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		ChunkSize:    config.GetEnvInt("CHUNK_SIZE", d.ChunkSize),
		ChunkOverlap: config.GetEnvInt("CHUNK_OVERLAP", d.ChunkOverlap),
		Timeout:      config.GetEnvDuration("SUMMARY_TIMEOUT", d.Timeout),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid summarize configuration: %w", err)
	}
	return cfg, nil
}
