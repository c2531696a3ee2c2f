package http

import (
	"context"
	"sync"
	"time"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/infra/llm"
	"content-summarizer/internal/usecase/summarize"
)

type fakeSummarizer struct {
	mu     sync.Mutex
	result *summarize.Result
	err    error
	calls  []summarize.Request
}

func (f *fakeSummarizer) Summarize(_ context.Context, req summarize.Request) (*summarize.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSummarizer) requests() []summarize.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]summarize.Request(nil), f.calls...)
}

// newModels returns a registry over the default catalog with Groq either
// configured or not.
func newModels(groqConfigured bool) *llm.Registry {
	cfg := llm.DefaultConfig()
	if groqConfigured {
		cfg.GroqAPIKey = "gsk_testkey0123456789"
	}
	return llm.NewRegistry(cfg, llm.DefaultCatalog())
}

func articleResult() *summarize.Result {
	return &summarize.Result{
		Summary:    "The article explains <b>chunking</b>.",
		URL:        "https://example.com/post",
		Source:     entity.SourceArticle,
		Title:      "Chunking text",
		ChunkCount: 3,
		Model:      "gemma-7b-it",
		Duration:   2 * time.Second,
	}
}

func videoResult() *summarize.Result {
	return &summarize.Result{
		Summary: "A talk about Go.",
		URL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Source:  entity.SourceVideo,
		Title:   "Go talk",
		Video: &entity.VideoInfo{
			ID:             "dQw4w9WgXcQ",
			Title:          "Go talk",
			Duration:       3725,
			DurationString: "1:02:05",
			Channel:        "Gophers",
			Thumbnail:      "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		},
		ChunkCount: 1,
		Model:      "gemma-7b-it",
		Duration:   time.Second,
	}
}

type panickingSummarizer struct{}

func (panickingSummarizer) Summarize(context.Context, summarize.Request) (*summarize.Result, error) {
	panic("summarizer exploded")
}

// stalledSummarizer blocks until release is closed, ignoring the request context.
type stalledSummarizer struct {
	release chan struct{}
}

func (s stalledSummarizer) Summarize(context.Context, summarize.Request) (*summarize.Result, error) {
	<-s.release
	return nil, context.DeadlineExceeded
}
