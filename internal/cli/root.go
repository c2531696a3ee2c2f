// Package cli implements the summarize command: the same pipeline as the web
// page, run once from a terminal.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"content-summarizer/internal/app"
	"content-summarizer/internal/observability/logging"
	"content-summarizer/internal/usecase/summarize"
)

// Summarizer runs the summarization pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, req summarize.Request) (*summarize.Result, error)
}

// BuildFunc constructs the Summarizer once flags are parsed.
type BuildFunc func(logger *slog.Logger) (Summarizer, error)

func buildPipeline(logger *slog.Logger) (Summarizer, error) {
	p, err := app.NewPipeline(logger)
	if err != nil {
		return nil, err
	}
	return p.Service, nil
}

// Execute runs the command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newSummarizeCmd(buildPipeline)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(os.Stderr, slog.LevelDebug, logging.FormatText)
	}
	return logging.NewTextLogger()
}
