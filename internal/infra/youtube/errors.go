package youtube

import "errors"

// Sentinel errors returned by Loader. Every message names YouTube so the
// cause is obvious in logs and CLI output.
var (
	// ErrInvalidVideoURL indicates no video id could be found in the URL.
	ErrInvalidVideoURL = errors.New("invalid YouTube video URL")

	// ErrVideoUnavailable indicates the video is private, removed, age-gated or
	// otherwise not playable.
	ErrVideoUnavailable = errors.New("YouTube video unavailable")

	// ErrPlayerResponseNotFound indicates the watch page did not embed the
	// player response, usually a consent or captcha page.
	ErrPlayerResponseNotFound = errors.New("YouTube player response not found")

	// ErrUnexpectedStatus indicates a non-2xx response from YouTube.
	ErrUnexpectedStatus = errors.New("unexpected YouTube HTTP status")

	// ErrNoTranscript indicates no usable English caption track exists.
	ErrNoTranscript = errors.New("no English YouTube transcript")

	// ErrNoContent indicates the video has neither a transcript nor a description.
	ErrNoContent = errors.New("YouTube video has no transcript or description")
)
