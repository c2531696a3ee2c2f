package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"content-summarizer/internal/handler/http/respond"
	"content-summarizer/pkg/config"
)

var (
	rateLimitRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Requests checked by the per-IP rate limiter",
		},
		[]string{"result"},
	)

	rateLimitActiveKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limit_active_keys",
			Help: "Client IPs currently tracked by the rate limiter",
		},
	)
)

// RateLimitMessage is shown to clients that exceed the limit.
const RateLimitMessage = "Too many requests. Please wait a moment and try again."

// RateLimitConfig configures the per-IP limiter on the summarize routes.
type RateLimitConfig struct {
	// Enabled toggles the limiter.
	// Default: true
	Enabled bool

	// PerMinute is the sustained number of summaries per client per minute.
	// Default: 6
	PerMinute float64

	// Burst is the number of requests a client may make at once.
	// Default: 3
	Burst int

	// IdleTTL drops clients that have not been seen for this long.
	// Default: 10m
	IdleTTL time.Duration
}

// LoadRateLimitConfig reads RATE_LIMIT_ENABLED, RATE_LIMIT_PER_MINUTE,
// RATE_LIMIT_BURST and RATE_LIMIT_IDLE_TTL.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:   config.GetEnvBool("RATE_LIMIT_ENABLED", true),
		PerMinute: config.GetEnvFloat("RATE_LIMIT_PER_MINUTE", 6),
		Burst:     config.GetEnvInt("RATE_LIMIT_BURST", 3),
		IdleTTL:   config.GetEnvDuration("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	extractor IPExtractor
	now       func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// NewRateLimiter creates a RateLimiter. Non-positive values fall back to the defaults.
func NewRateLimiter(cfg RateLimitConfig, extractor IPExtractor) *RateLimiter {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 6
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 3
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if extractor == nil {
		extractor = &RemoteAddrExtractor{}
	}
	return &RateLimiter{
		limit:     rate.Limit(cfg.PerMinute / 60),
		burst:     cfg.Burst,
		idleTTL:   cfg.IdleTTL,
		extractor: extractor,
		now:       time.Now,
		clients:   make(map[string]*client),
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.extractor.ExtractIP(r)
		if err != nil {
			// Fail open: an unparsable peer address is not the client's fault.
			slog.Warn("rate limiter could not determine client IP",
				slog.String("remote_addr", r.RemoteAddr),
				slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		ok, retryAfter := rl.allow(ip)
		if !ok {
			rateLimitRequests.WithLabelValues("denied").Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respond.WriteError(w, http.StatusTooManyRequests,
				respond.NewAppError(http.StatusTooManyRequests, RateLimitMessage, nil))
			return
		}
		rateLimitRequests.WithLabelValues("allowed").Inc()
		next.ServeHTTP(w, r)
	})
}

// allow takes a token for ip, returning how long to wait when none is left.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
		rateLimitActiveKeys.Set(float64(len(rl.clients)))
	}
	c.lastSeen = now
	rl.mu.Unlock()

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup forgets clients idle for longer than the configured TTL.
func (rl *RateLimiter) Cleanup() int {
	cutoff := rl.now().Add(-rl.idleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			removed++
		}
	}
	rateLimitActiveKeys.Set(float64(len(rl.clients)))
	return removed
}

// ActiveKeys returns the number of tracked clients.
func (rl *RateLimiter) ActiveKeys() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				slog.Debug("rate limiter cleanup", slog.Int("removed", n))
			}
		}
	}
}
