// Package youtube loads a video's metadata and English transcript from the
// public watch page, falling back to the description when no captions exist.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/observability/metrics"
	"content-summarizer/internal/resilience/circuitbreaker"
	"content-summarizer/internal/resilience/retry"
	"content-summarizer/internal/utils/text"
)

// consentMarker appears on the EU cookie wall served instead of the watch page.
const consentMarker = `action="https://consent.youtube.com/s"`

// Loader fetches videos. It is safe for concurrent use.
type Loader struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// Option customizes a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.client = c
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(l *Loader) {
		l.retryConfig = cfg
	}
}

// WithCircuitBreaker overrides the circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(l *Loader) {
		l.circuitBreaker = cb
	}
}

// NewLoader creates a Loader.
func NewLoader(cfg Config, opts ...Option) *Loader {
	cbConfig := circuitbreaker.VideoFetchConfig()
	cbConfig.IsSuccessful = func(err error) bool {
		return err == nil || isCallerError(err)
	}

	l := &Loader{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		circuitBreaker: circuitbreaker.New(cbConfig),
		retryConfig:    retry.VideoFetchConfig(),
		config:         cfg,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the video's metadata and a single document holding its English
// transcript, or its description when no transcript is available. The
// document carries source and title metadata.
func (l *Loader) Load(ctx context.Context, rawURL string) (*entity.VideoInfo, []entity.Document, error) {
	id, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.Default().With(slog.String("video_id", id))

	page, err := l.get(ctx, l.config.BaseURL+"/watch?v="+url.QueryEscape(id), l.config.MaxPageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch YouTube watch page: %w", err)
	}

	pr, err := parsePlayerResponse(page)
	if err != nil {
		if strings.Contains(string(page), consentMarker) {
			return nil, nil, fmt.Errorf("%w: consent page returned", ErrPlayerResponseNotFound)
		}
		return nil, nil, err
	}
	if !pr.playable() {
		reason := firstNonEmpty(pr.PlayabilityStatus.Reason, pr.PlayabilityStatus.Status, "unknown status")
		return nil, nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, reason)
	}

	info := pr.videoInfo(id)

	content, err := l.transcript(ctx, pr)
	if err != nil {
		logger.InfoContext(ctx, "transcript unavailable, using video description",
			slog.Any("reason", err))
		metrics.RecordDescriptionFallback()
		content = strings.TrimSpace(info.Description)
	}
	if content == "" {
		return info, nil, ErrNoContent
	}

	content, truncated := text.Truncate(content, l.config.MaxContentRunes)
	if truncated {
		logger.WarnContext(ctx, "video text truncated", slog.Int("limit", l.config.MaxContentRunes))
	}

	logger.DebugContext(ctx, "video loaded",
		slog.String("title", info.Title),
		slog.Int("duration", info.Duration),
		slog.Int("runes", text.CountRunes(content)))

	doc := entity.NewDocument(content, rawURL).WithMeta(entity.MetaTitle, info.Title)
	return info, []entity.Document{doc}, nil
}

// CircuitBreaker exposes the breaker guarding YouTube requests.
func (l *Loader) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return l.circuitBreaker
}

// transcript downloads and flattens the preferred English caption track.
func (l *Loader) transcript(ctx context.Context, pr *playerResponse) (string, error) {
	track, ok := pickTrack(pr.captionTracks(), l.config.Languages)
	if !ok {
		return "", ErrNoTranscript
	}

	trackURL, err := l.resolve(track.BaseURL)
	if err != nil {
		return "", err
	}

	data, err := l.get(ctx, trackURL, l.config.MaxTranscriptSize)
	if err != nil {
		return "", fmt.Errorf("fetch YouTube captions: %w", err)
	}

	transcript, err := parseTimedText(data)
	if err != nil {
		return "", err
	}
	if transcript == "" {
		return "", fmt.Errorf("%w: caption track %s is empty", ErrNoTranscript, track.LanguageCode)
	}
	return transcript, nil
}

// resolve makes relative caption URLs absolute against BaseURL.
func (l *Loader) resolve(ref string) (string, error) {
	base, err := url.Parse(l.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	u, err := base.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse YouTube caption URL: %w", err)
	}
	return u.String(), nil
}

// get performs a GET with retry outside and the circuit breaker inside.
func (l *Loader) get(ctx context.Context, target string, limit int64) ([]byte, error) {
	return retry.Do(ctx, l.retryConfig, func() ([]byte, error) {
		body, err := circuitbreaker.Run(l.circuitBreaker, func() ([]byte, error) {
			return l.download(ctx, target, limit)
		})
		if err != nil && circuitbreaker.IsOpenError(err) {
			slog.WarnContext(ctx, "YouTube circuit breaker open, request rejected",
				slog.String("circuit", l.circuitBreaker.Name()))
		}
		return body, err
	})
}

func (l *Loader) download(ctx context.Context, target string, limit int64) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.config.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// Skips the EU consent interstitial.
	req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+cb"})

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("YouTube request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedStatus,
			&retry.HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read YouTube response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("YouTube response exceeds %d bytes", limit)
	}
	return body, nil
}

// isCallerError reports 4xx responses (other than 408/429), which describe the
// requested video rather than YouTube's health.
func isCallerError(err error) bool {
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 &&
			httpErr.StatusCode != http.StatusTooManyRequests && httpErr.StatusCode != http.StatusRequestTimeout
	}
	return false
}
