// Package summarize turns a URL into a summary: it validates the URL, loads the
// video transcript or article text, splits it into overlapping chunks and runs
// them through a refine chain on the selected chat model.
package summarize

import "errors"

// Sentinel errors returned by Service.Summarize. Each is wrapped around the
// underlying cause, so errors.Is works on both.
var (
	// ErrInvalidURL indicates the URL failed the format check. No network call was made.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnknownModel indicates the requested model is not in the catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrProviderNotConfigured indicates the model's provider has no API key.
	ErrProviderNotConfigured = errors.New("model provider not configured")

	// ErrVideoUnavailable indicates the YouTube video could not be loaded.
	ErrVideoUnavailable = errors.New("YouTube video unavailable")

	// ErrArticleUnavailable indicates the article page could not be loaded.
	ErrArticleUnavailable = errors.New("failed to load article content")

	// ErrNoContent indicates the source loaded but held no text to summarize.
	ErrNoContent = errors.New("no content to summarize")

	// ErrSummarizationFailed indicates the chat model failed during the refine chain.
	ErrSummarizationFailed = errors.New("summarization failed")
)
