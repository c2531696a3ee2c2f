package http

import (
	"log/slog"
	"net/http"
	"time"

	"content-summarizer/internal/handler/http/middleware"
	"content-summarizer/internal/handler/http/requestid"
	"content-summarizer/internal/observability/tracing"
	"content-summarizer/internal/resilience/circuitbreaker"
)

// Deps holds everything NewRouter wires into the route table.
type Deps struct {
	Service Summarizer
	Models  ModelSource
	Logger  *slog.Logger
	Version string

	// Breakers are reported by /health.
	Breakers []*circuitbreaker.CircuitBreaker

	// RateLimiter guards the summarize routes. Nil disables limiting.
	RateLimiter *middleware.RateLimiter

	// CSP sets Content-Security-Policy headers. Nil or disabled skips them.
	CSP *middleware.CSPMiddleware

	// RequestTimeout bounds the summarize routes. Zero disables it.
	RequestTimeout time.Duration

	// MaxBodyBytes caps request bodies. Default: 1MB
	MaxBodyBytes int64
}

// NewRouter registers every route and wraps the mux in the middleware chain.
//
// Middleware order (outermost first):
// Request ID → Tracing → Recovery → Logging → Metrics → CSP → Body Limit.
// The summarize routes additionally pass through the IP rate limiter and
// the request timeout. A timed-out form post gets the page back, the JSON
// API gets an ErrorBody.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	summarizeChain := func(h http.Handler, onTimeout http.HandlerFunc) http.Handler {
		if d.RequestTimeout > 0 {
			h = TimeoutWith(d.RequestTimeout, onTimeout)(h)
		}
		if d.RateLimiter != nil {
			h = d.RateLimiter.Middleware(h)
		}
		return h
	}

	page := &PageHandler{Service: d.Service, Models: d.Models}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", page)
	mux.Handle("POST /{$}", summarizeChain(page, page.RenderTimeout))
	mux.Handle("POST /api/summaries", summarizeChain(&SummariesHandler{Service: d.Service}, writeTimeoutJSON))
	mux.Handle("GET /api/models", &ModelsHandler{Models: d.Models})
	mux.Handle("POST /download", DownloadHandler())
	mux.Handle("GET /static/page.css", StylesheetHandler())

	mux.Handle("GET /health", &HealthHandler{
		Version:       d.Version,
		Models:        d.Models,
		Breakers:      d.Breakers,
		CSPEnabled:    d.CSP != nil && d.CSP.Enabled(),
		CSPReportOnly: d.CSP != nil && d.CSP.ReportOnly(),
	})
	mux.Handle("GET /ready", &ReadyHandler{Models: d.Models})
	mux.Handle("GET /live", &LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())

	var h http.Handler = mux
	h = LimitRequestBody(maxBody)(h)
	if d.CSP != nil && d.CSP.Enabled() {
		h = d.CSP.Middleware()(h)
	}
	h = MetricsMiddleware(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	h = tracing.Middleware(h)
	h = requestid.Middleware(h)
	return h
}
