package http

import (
	"context"
	"errors"
	"net/http"

	"content-summarizer/internal/handler/http/respond"
	"content-summarizer/internal/usecase/summarize"
)

// User-facing messages for summarize failures.
const (
	MsgInvalidURL          = "Please enter a valid URL"
	MsgUnknownModel        = "Please choose one of the available models"
	MsgModelUnavailable    = "The selected model is not available right now. Please choose another model."
	MsgVideoUnavailable    = "Error accessing YouTube video. Please check if the video exists and is publicly available."
	MsgArticleUnavailable  = "Failed to load article content"
	MsgArticleNoContent    = "Unable to extract content from this article. Please check if the URL is accessible."
	MsgTimeout             = "Summarizing took too long. Please try again, or pick a shorter video or article."
	MsgGenericErrorPrefix  = "An error occurred: "
	MsgNothingToDownload   = "There is no summary to download"
	MsgInvalidContentType  = "Please choose a content type: auto, video or article"
	MsgInvalidJSONEnvelope = "Request body must be a JSON object with a url field"
)

// ArticleHints follow MsgArticleUnavailable.
var ArticleHints = []string{
	"The URL is accessible",
	"The website allows content extraction",
	"The article is not behind a paywall",
}

// summarizeError maps a summarize error to the message shown to the user.
// Only the generic fallback carries error text, with secrets masked.
func summarizeError(err error) *respond.AppError {
	switch {
	case errors.Is(err, summarize.ErrInvalidURL):
		return respond.NewAppError(http.StatusBadRequest, MsgInvalidURL, err)
	case errors.Is(err, summarize.ErrUnknownModel):
		return respond.NewAppError(http.StatusBadRequest, MsgUnknownModel, err)
	case errors.Is(err, summarize.ErrProviderNotConfigured):
		return respond.NewAppError(http.StatusServiceUnavailable, MsgModelUnavailable, err)
	case errors.Is(err, summarize.ErrVideoUnavailable):
		return respond.NewAppError(http.StatusBadGateway, MsgVideoUnavailable, err)
	case errors.Is(err, summarize.ErrNoContent):
		return respond.NewAppError(http.StatusUnprocessableEntity, MsgArticleNoContent, err)
	case errors.Is(err, summarize.ErrArticleUnavailable):
		return respond.NewAppError(http.StatusBadGateway, MsgArticleUnavailable, err, ArticleHints...)
	case errors.Is(err, context.DeadlineExceeded):
		return respond.NewAppError(http.StatusGatewayTimeout, MsgTimeout, err)
	default:
		return respond.NewAppError(http.StatusInternalServerError,
			MsgGenericErrorPrefix+respond.SanitizeError(err), err)
	}
}
