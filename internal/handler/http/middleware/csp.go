// Package middleware holds HTTP middleware that carries its own configuration.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"content-summarizer/pkg/security/csp"
)

// CSPMiddlewareConfig holds configuration for CSP middleware.
type CSPMiddlewareConfig struct {
	// Enabled controls whether CSP headers are applied.
	// Default: true
	Enabled bool

	// DefaultPolicy applies when no path policy matches.
	DefaultPolicy *csp.CSPBuilder

	// PathPolicies maps path prefixes to policies; the longest matching prefix wins.
	// The key "/" matches only the root path, so the page policy does not
	// leak onto every route.
	PathPolicies map[string]*csp.CSPBuilder

	// ReportOnly sends Content-Security-Policy-Report-Only instead of enforcing.
	// Default: false
	ReportOnly bool
}

// CSPMiddleware applies Content-Security-Policy headers to HTTP responses.
type CSPMiddleware struct {
	config  CSPMiddlewareConfig
	headers map[*csp.CSPBuilder]header
}

type header struct {
	name  string
	value string
}

// NewCSPMiddleware creates the middleware. Header values are built once here.
//
//	mw := NewCSPMiddleware(CSPMiddlewareConfig{
//	    Enabled:       true,
//	    DefaultPolicy: csp.StrictPolicy(),
//	    PathPolicies:  map[string]*csp.CSPBuilder{"/": csp.PagePolicy(csp.YouTubeThumbnailHost)},
//	})
//	handler = mw.Middleware()(handler)
func NewCSPMiddleware(config CSPMiddlewareConfig) *CSPMiddleware {
	m := &CSPMiddleware{config: config, headers: make(map[*csp.CSPBuilder]header)}
	add := func(p *csp.CSPBuilder) {
		if p == nil {
			return
		}
		p.ReportOnly(config.ReportOnly)
		m.headers[p] = header{name: p.HeaderName(), value: p.Build()}
	}
	add(config.DefaultPolicy)
	for _, p := range config.PathPolicies {
		add(p)
	}
	return m
}

// Enabled reports whether headers are applied.
func (m *CSPMiddleware) Enabled() bool {
	return m.config.Enabled
}

// ReportOnly reports whether violations are only reported.
func (m *CSPMiddleware) ReportOnly() bool {
	return m.config.ReportOnly
}

// Middleware returns the HTTP middleware.
func (m *CSPMiddleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			if h, ok := m.headers[m.selectPolicy(r.URL.Path)]; ok && h.value != "" {
				w.Header().Set(h.name, h.value)
				slog.Debug("CSP header applied",
					slog.String("path", r.URL.Path),
					slog.String("header", h.name))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// selectPolicy returns the policy of the longest matching prefix, or the
// default policy.
//
//	PathPolicies: {"/": PagePolicy, "/download": StrictPolicy}
//	"/"              → PagePolicy
//	"/download"      → StrictPolicy
//	"/api/summaries" → DefaultPolicy
func (m *CSPMiddleware) selectPolicy(path string) *csp.CSPBuilder {
	longest := ""
	var matched *csp.CSPBuilder
	for prefix, policy := range m.config.PathPolicies {
		if !matches(path, prefix) {
			continue
		}
		if matched == nil || len(prefix) > len(longest) {
			longest = prefix
			matched = policy
		}
	}
	if matched != nil {
		return matched
	}
	return m.config.DefaultPolicy
}

func matches(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, prefix)
}
