package fetcher

import "errors"

// Sentinel errors returned by ReadabilityFetcher.
var (
	// ErrInvalidURL indicates the URL failed scheme or host checks.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the host resolves to a private, loopback or link-local address.
	ErrPrivateIP = errors.New("private IP address not allowed")

	// ErrTooManyRedirects indicates the redirect chain exceeded MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response exceeded MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the page did not load within Timeout.
	ErrTimeout = errors.New("fetch timeout")

	// ErrUnexpectedStatus indicates a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNotHTML indicates the response is not an HTML document.
	ErrNotHTML = errors.New("response is not HTML")

	// ErrNoContent indicates the page loaded but no readable text was found.
	ErrNoContent = errors.New("no readable content")
)
