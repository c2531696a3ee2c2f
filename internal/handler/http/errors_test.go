package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"content-summarizer/internal/usecase/summarize"
)

func TestSummarizeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantMsg   string
		wantHints bool
	}{
		{"invalid url", fmt.Errorf("%w: empty", summarize.ErrInvalidURL), http.StatusBadRequest, MsgInvalidURL, false},
		{"unknown model", fmt.Errorf("%w: \"gpt-9\"", summarize.ErrUnknownModel), http.StatusBadRequest, MsgUnknownModel, false},
		{"provider missing", summarize.ErrProviderNotConfigured, http.StatusServiceUnavailable, MsgModelUnavailable, false},
		{"video", fmt.Errorf("%w: unplayable", summarize.ErrVideoUnavailable), http.StatusBadGateway, MsgVideoUnavailable, false},
		{
			"empty video stays a video error",
			fmt.Errorf("%w: %w", summarize.ErrVideoUnavailable, summarize.ErrNoContent),
			http.StatusBadGateway, MsgVideoUnavailable, false,
		},
		{"empty article", summarize.ErrNoContent, http.StatusUnprocessableEntity, MsgArticleNoContent, false},
		{"article", fmt.Errorf("%w: dns", summarize.ErrArticleUnavailable), http.StatusBadGateway, MsgArticleUnavailable, true},
		{"timeout", fmt.Errorf("step 2 of 5: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, MsgTimeout, false},
		{"other", errors.New("boom"), http.StatusInternalServerError, "An error occurred: boom", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarizeError(tt.err)

			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMsg, got.UserMsg)
			assert.ErrorIs(t, got, tt.err)
			if tt.wantHints {
				assert.Equal(t, ArticleHints, got.Hints)
			} else {
				assert.Empty(t, got.Hints)
			}
		})
	}
}

func TestSummarizeError_MasksSecrets(t *testing.T) {
	err := fmt.Errorf("%w: request with key sk-ant-api03-secretvalue rejected", summarize.ErrSummarizationFailed)

	got := summarizeError(err)

	assert.Contains(t, got.UserMsg, "sk-ant-****")
	assert.NotContains(t, got.UserMsg, "secretvalue")
}
