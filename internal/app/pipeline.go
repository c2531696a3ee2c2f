// Package app wires the summarize pipeline from environment configuration.
// It is shared by cmd/api and cmd/summarize.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"content-summarizer/internal/infra/fetcher"
	"content-summarizer/internal/infra/llm"
	"content-summarizer/internal/infra/youtube"
	"content-summarizer/internal/resilience/circuitbreaker"
	"content-summarizer/internal/usecase/summarize"
)

// Pipeline is the wired summarize service with the pieces the server reports on.
type Pipeline struct {
	Service  *summarize.Service
	Registry *llm.Registry
	Breakers []*circuitbreaker.CircuitBreaker

	watcher *llm.CatalogWatcher
}

// NewPipeline loads every pipeline configuration from the environment and
// builds the loaders, the model registry and the service.
func NewPipeline(logger *slog.Logger) (*Pipeline, error) {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("article fetcher: %w", err)
	}
	ytCfg, err := youtube.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("youtube loader: %w", err)
	}
	llmCfg, err := llm.LoadConfig()
	if err != nil {
		return nil, err
	}
	sumCfg, err := summarize.LoadConfig()
	if err != nil {
		return nil, err
	}

	catalog := llm.DefaultCatalog()
	var watcher *llm.CatalogWatcher
	if llmCfg.ModelsFile != "" {
		if catalog, err = llm.LoadCatalogFile(llmCfg.ModelsFile); err != nil {
			return nil, fmt.Errorf("model catalog: %w", err)
		}
		if watcher, err = llm.NewCatalogWatcher(llmCfg.ModelsFile, catalog); err != nil {
			logger.Warn("model catalog hot reload disabled", slog.Any("error", err))
		}
	}

	articles := fetcher.NewReadabilityFetcher(fetchCfg)
	videos := youtube.NewLoader(ytCfg)
	registry := llm.NewRegistry(llmCfg, catalog)

	svc, err := summarize.NewService(sumCfg, videos, articles, registry)
	if err != nil {
		return nil, err
	}

	models := catalog.Models()
	configured := 0
	for _, m := range models {
		if registry.Configured(m.Provider) {
			configured++
		}
	}
	logger.Info("summarize pipeline ready",
		slog.Int("chunk_size", sumCfg.ChunkSize),
		slog.Int("chunk_overlap", sumCfg.ChunkOverlap),
		slog.Duration("summary_timeout", sumCfg.Timeout),
		slog.Int("models", len(models)),
		slog.Int("models_configured", configured),
		slog.String("default_model", catalog.Default().Name),
		slog.Bool("noop", llmCfg.Noop))
	if configured == 0 {
		logger.Warn("no model provider has an API key; summaries will fail until one is set")
	}

	return &Pipeline{
		Service:  svc,
		Registry: registry,
		Breakers: []*circuitbreaker.CircuitBreaker{videos.CircuitBreaker(), articles.CircuitBreaker()},
		watcher:  watcher,
	}, nil
}

// Run keeps background work (model catalog reloads) going until ctx is done.
func (p *Pipeline) Run(ctx context.Context) {
	if p.watcher == nil {
		return
	}
	if err := p.watcher.Run(ctx); err != nil {
		slog.Error("model catalog watcher stopped", slog.Any("error", err))
	}
}
