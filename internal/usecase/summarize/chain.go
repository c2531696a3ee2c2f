package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/infra/llm"
)

// RefineChain summarizes documents incrementally: the first chunk goes through
// the question prompt, and every following chunk is folded into the running
// summary with the refine prompt.
type RefineChain struct {
	logger *slog.Logger
}

// NewRefineChain creates a RefineChain. A nil logger uses slog.Default.
func NewRefineChain(logger *slog.Logger) *RefineChain {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefineChain{logger: logger}
}

// Run returns the final summary. Zero documents return ErrNoContent without
// calling the model.
func (c *RefineChain) Run(ctx context.Context, model llm.ChatModel, prompts Prompts, docs []entity.Document) (string, error) {
	if len(docs) == 0 {
		return "", ErrNoContent
	}

	var summary string
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var (
			prompt string
			err    error
		)
		if i == 0 {
			prompt, err = prompts.question(doc.Content)
		} else {
			prompt, err = prompts.refine(summary, doc.Content)
		}
		if err != nil {
			return "", err
		}

		c.logger.DebugContext(ctx, "refine chain step",
			slog.Int("step", i+1),
			slog.Int("steps", len(docs)),
			slog.String("model", model.Name()),
			slog.Int("prompt_length", len(prompt)))

		start := time.Now()
		reply, err := model.Complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("step %d of %d: %w", i+1, len(docs), err)
		}
		summary = strings.TrimSpace(reply)

		c.logger.DebugContext(ctx, "refine chain step done",
			slog.Int("step", i+1),
			slog.Int("summary_length", len(summary)),
			slog.Duration("duration", time.Since(start)))
	}
	return summary, nil
}
