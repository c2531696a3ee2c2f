package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/infra/fetcher"
	"content-summarizer/internal/infra/llm"
	"content-summarizer/internal/observability/metrics"
	"content-summarizer/internal/observability/tracing"
	"content-summarizer/internal/utils/text"
)

// VideoLoader loads a YouTube video's metadata and transcript.
type VideoLoader interface {
	Load(ctx context.Context, url string) (*entity.VideoInfo, []entity.Document, error)
}

// ArticleLoader loads the readable text of a web page.
type ArticleLoader interface {
	Load(ctx context.Context, url string) ([]entity.Document, error)
}

// ModelRegistry resolves a model name to a chat model. An empty name selects
// the default model.
type ModelRegistry interface {
	Get(ctx context.Context, name string) (llm.ChatModel, error)
}

// Request is one summarization request.
type Request struct {
	URL         string
	ContentType entity.ContentType
	Model       string
}

// Result is a finished summary.
type Result struct {
	Summary    string            `json:"summary"`
	URL        string            `json:"url"`
	Source     entity.Source     `json:"source"`
	Title      string            `json:"title,omitempty"`
	Video      *entity.VideoInfo `json:"video,omitempty"`
	ChunkCount int               `json:"chunk_count"`
	Model      string            `json:"model"`
	Duration   time.Duration     `json:"duration"`
}

// Service runs the summarization pipeline.
type Service struct {
	videos   VideoLoader
	articles ArticleLoader
	models   ModelRegistry
	splitter text.Splitter
	chain    *RefineChain
	timeout  time.Duration
	group    singleflight.Group
}

// NewService creates a Service. The configuration is validated.
func NewService(cfg Config, videos VideoLoader, articles ArticleLoader, models ModelRegistry) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	splitter, err := text.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	return &Service{
		videos:   videos,
		articles: articles,
		models:   models,
		splitter: splitter,
		chain:    NewRefineChain(slog.Default()),
		timeout:  cfg.Timeout,
	}, nil
}

// Summarize validates req.URL, resolves the model, loads and splits the
// content and runs the refine chain.
//
// Concurrent calls with the same URL, content type and resolved model share
// one run.
// The shared run is bounded by the service timeout rather than by any single
// caller; a caller whose context ends stops waiting and gets ctx.Err().
func (s *Service) Summarize(ctx context.Context, req Request) (*Result, error) {
	req.URL = strings.TrimSpace(req.URL)
	if req.ContentType == "" {
		req.ContentType = entity.ContentTypeAuto
	}

	if err := entity.ValidateURL(req.URL); err != nil {
		metrics.RecordSummary("", metrics.StatusInvalidInput, 0)
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	// Keyed by the resolved model so an empty name and the default's own
	// name share a run.
	model, err := s.resolveModel(ctx, req.Model)
	if err != nil {
		metrics.RecordSummary("", statusOf(err), 0)
		return nil, err
	}

	key := string(req.ContentType) + "|" + model.Name() + "|" + req.URL
	ch := s.group.DoChan(key, func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.run(runCtx, req, model)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.DebugContext(ctx, "joined in-flight summary", slog.String("url", req.URL))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		out := *res.Val.(*Result)
		return &out, nil
	}
}

func (s *Service) run(ctx context.Context, req Request, model llm.ChatModel) (result *Result, err error) {
	start := time.Now()
	source := entity.ResolveSource(req.URL, req.ContentType)

	ctx, span := tracing.StartSpan(ctx, "summarize",
		attribute.String("summary.url", req.URL),
		attribute.String("summary.source", string(source)),
		attribute.String("summary.model", model.Name()))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.RecordSummary(string(source), statusOf(err), time.Since(start))
	}()

	slog.InfoContext(ctx, "summarizing",
		slog.String("url", req.URL),
		slog.String("source", string(source)),
		slog.String("model", model.Name()))

	result = &Result{URL: req.URL, Source: source, Model: model.Name()}

	docs, err := s.extract(ctx, source, req.URL, result)
	if err != nil {
		return nil, err
	}

	chunks := s.split(ctx, source, docs)
	result.ChunkCount = len(chunks)

	summary, err := s.refine(ctx, source, model, chunks)
	if err != nil {
		return nil, err
	}
	result.Summary = summary
	result.Duration = time.Since(start)

	slog.InfoContext(ctx, "summary complete",
		slog.String("url", req.URL),
		slog.String("source", string(source)),
		slog.Int("chunks", result.ChunkCount),
		slog.Int("summary_length", len(summary)),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (s *Service) resolveModel(ctx context.Context, name string) (llm.ChatModel, error) {
	model, err := s.models.Get(ctx, name)
	switch {
	case err == nil:
		return model, nil
	case errors.Is(err, llm.ErrUnknownModel):
		return nil, fmt.Errorf("%w: %w", ErrUnknownModel, err)
	case errors.Is(err, llm.ErrProviderNotConfigured):
		return nil, fmt.Errorf("%w: %w", ErrProviderNotConfigured, err)
	default:
		return nil, fmt.Errorf("%w: resolve model: %w", ErrSummarizationFailed, err)
	}
}

// extract loads the source documents and fills the video card and title of result.
func (s *Service) extract(ctx context.Context, source entity.Source, url string, result *Result) (docs []entity.Document, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "summarize.extract", attribute.String("summary.source", string(source)))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.RecordStage(metrics.StageExtract, string(source), time.Since(start))
	}()

	if source == entity.SourceVideo {
		var info *entity.VideoInfo
		info, docs, err = s.videos.Load(ctx, url)
		if err != nil {
			// Video failures, an empty transcript included, are reported as
			// an inaccessible video.
			return nil, fmt.Errorf("%w: %w", ErrVideoUnavailable, err)
		}
		result.Video = info
		if info != nil {
			result.Title = info.Title
		}
		return docs, s.checkContent(source, docs)
	}

	docs, err = s.articles.Load(ctx, url)
	if err != nil {
		if errors.Is(err, fetcher.ErrNoContent) {
			return nil, fmt.Errorf("%w: %w", ErrNoContent, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrArticleUnavailable, err)
	}
	if len(docs) > 0 {
		result.Title = docs[0].Title()
	}
	return docs, s.checkContent(source, docs)
}

func (s *Service) checkContent(source entity.Source, docs []entity.Document) error {
	runes := 0
	for _, d := range docs {
		runes += text.CountRunes(strings.TrimSpace(d.Content))
	}
	metrics.RecordExtractedText(string(source), runes)
	if runes == 0 {
		if source == entity.SourceVideo {
			return fmt.Errorf("%w: %w", ErrVideoUnavailable, ErrNoContent)
		}
		return ErrNoContent
	}
	return nil
}

func (s *Service) split(ctx context.Context, source entity.Source, docs []entity.Document) []entity.Document {
	start := time.Now()
	_, span := tracing.StartSpan(ctx, "summarize.split")
	chunks := s.splitter.SplitDocuments(docs)
	span.SetAttributes(attribute.Int("summary.chunks", len(chunks)))
	tracing.EndSpan(span, nil)

	metrics.RecordStage(metrics.StageSplit, string(source), time.Since(start))
	metrics.RecordChunks(len(chunks))
	return chunks
}

func (s *Service) refine(ctx context.Context, source entity.Source, model llm.ChatModel, chunks []entity.Document) (summary string, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "summarize.refine",
		attribute.String("summary.model", model.Name()),
		attribute.Int("summary.chunks", len(chunks)))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.RecordStage(metrics.StageSummarize, string(source), time.Since(start))
	}()

	summary, err = s.chain.Run(ctx, model, PromptsFor(source), chunks)
	switch {
	case err == nil:
		return summary, nil
	case errors.Is(err, ErrNoContent):
		return "", err
	default:
		return "", fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, ErrNoContent):
		return metrics.StatusNoContent
	case errors.Is(err, ErrUnknownModel), errors.Is(err, ErrProviderNotConfigured):
		return metrics.StatusInvalidInput
	case errors.Is(err, ErrVideoUnavailable), errors.Is(err, ErrArticleUnavailable):
		return metrics.StatusExtractFailed
	default:
		return metrics.StatusSummarizeFailed
	}
}
