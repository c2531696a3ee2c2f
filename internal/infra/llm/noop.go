package llm

import (
	"context"
	"strings"

	"content-summarizer/internal/utils/text"
)

// noopMaxRunes bounds the NoOp reply.
const noopMaxRunes = 500

// NoOp is an offline ChatModel for development and tests. It echoes the
// prompt cut to 500 characters.
type NoOp struct {
	model string
}

// NewNoOp creates a NoOp model that reports name as its model.
func NewNoOp(name string) *NoOp {
	if name == "" {
		name = ProviderNoop
	}
	return &NoOp{model: name}
}

// Name implements ChatModel.
func (n *NoOp) Name() string {
	return n.model
}

// Complete implements ChatModel.
func (n *NoOp) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reply, truncated := text.Truncate(strings.TrimSpace(prompt), noopMaxRunes)
	if truncated {
		reply += "..."
	}
	return reply, nil
}
