package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-summarizer/internal/domain/entity"
)

func chunks(contents ...string) []entity.Document {
	docs := make([]entity.Document, 0, len(contents))
	for _, c := range contents {
		docs = append(docs, entity.NewDocument(c, "https://example.com"))
	}
	return docs
}

func testPrompts(t *testing.T) Prompts {
	t.Helper()
	p, err := NewPrompts("test", "Q[{{.Text}}]", "R[{{.ExistingAnswer}}|{{.Text}}]")
	require.NoError(t, err)
	return p
}

func TestRefineChain_Run(t *testing.T) {
	model := &scriptedModel{name: "m"}
	chain := NewRefineChain(nil)

	summary, err := chain.Run(context.Background(), model, testPrompts(t), chunks("one", "two", "three"))
	require.NoError(t, err)

	assert.Equal(t, "summary 3", summary)
	assert.Equal(t, []string{
		"Q[one]",
		"R[summary 1|two]",
		"R[summary 2|three]",
	}, model.Prompts())
}

func TestRefineChain_SingleChunk(t *testing.T) {
	model := &scriptedModel{name: "m"}

	summary, err := NewRefineChain(nil).Run(context.Background(), model, testPrompts(t), chunks("only"))
	require.NoError(t, err)
	assert.Equal(t, "summary 1", summary)
	assert.Equal(t, []string{"Q[only]"}, model.Prompts())
}

func TestRefineChain_NoDocuments(t *testing.T) {
	model := &scriptedModel{name: "m"}

	_, err := NewRefineChain(nil).Run(context.Background(), model, testPrompts(t), nil)
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Empty(t, model.Prompts())
}

func TestRefineChain_ModelError(t *testing.T) {
	boom := errors.New("boom")
	model := &scriptedModel{name: "m", err: boom}

	_, err := NewRefineChain(nil).Run(context.Background(), model, testPrompts(t), chunks("one", "two"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step 1 of 2")
	assert.Len(t, model.Prompts(), 1)
}

func TestRefineChain_CanceledContext(t *testing.T) {
	model := &scriptedModel{name: "m"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRefineChain(nil).Run(ctx, model, testPrompts(t), chunks("one"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, model.Prompts())
}
