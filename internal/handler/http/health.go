// Package http serves the summarizer's single page, its JSON API, the
// summary download, health probes and metrics, along with the middleware
// wrapped around them.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"content-summarizer/internal/handler/http/respond"
	"content-summarizer/internal/resilience/circuitbreaker"
)

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // healthy, degraded or unhealthy
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// CSPHealthInfo contains health information for CSP middleware.
type CSPHealthInfo struct {
	Enabled    bool `json:"enabled"`
	ReportOnly bool `json:"report_only"`
}

// HealthHandler reports whether summaries can be produced: at least one
// catalog model must have a configured provider. Open circuit breakers on the
// loaders mark the service degraded but keep it healthy.
type HealthHandler struct {
	Version  string
	Models   ModelSource
	Breakers []*circuitbreaker.CircuitBreaker

	CSPEnabled    bool
	CSPReportOnly bool
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	checks := map[string]CheckStatus{
		"models": checkModels(h.Models),
	}
	if len(h.Breakers) > 0 {
		checks["circuit_breakers"] = checkBreakers(h.Breakers)
	}
	if h.CSPEnabled {
		checks["csp"] = CheckStatus{
			Status:  StatusHealthy,
			Details: map[string]any{"config": CSPHealthInfo{Enabled: true, ReportOnly: h.CSPReportOnly}},
		}
	}

	status := StatusHealthy
	code := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
			code = http.StatusServiceUnavailable
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func checkModels(models ModelSource) CheckStatus {
	if models == nil {
		return CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
	}
	catalog := models.Catalog()
	list := catalog.Models()
	available := 0
	for _, m := range list {
		if models.Configured(m.Provider) {
			available++
		}
	}

	details := map[string]any{
		"total":     len(list),
		"available": available,
		"default":   catalog.Default().Name,
	}
	switch {
	case available == 0:
		return CheckStatus{Status: StatusUnhealthy, Message: "no model has a configured provider", Details: details}
	case !models.Configured(catalog.Default().Provider):
		return CheckStatus{Status: StatusDegraded, Message: "default model provider not configured", Details: details}
	default:
		return CheckStatus{Status: StatusHealthy, Details: details}
	}
}

func checkBreakers(breakers []*circuitbreaker.CircuitBreaker) CheckStatus {
	details := make(map[string]any, len(breakers))
	status := StatusHealthy
	for _, cb := range breakers {
		state := cb.State()
		details[cb.Name()] = state.String()
		if state == gobreaker.StateOpen {
			status = StatusDegraded
		}
	}
	return CheckStatus{Status: status, Details: details}
}

// ReadyHandler answers readiness probes: ready once a model can be used.
type ReadyHandler struct {
	Models ModelSource
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if check := checkModels(h.Models); check.Status == StatusUnhealthy {
		http.Error(w, "not ready: "+check.Message, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		slog.Debug("ready: failed to write response", slog.Any("error", err))
	}
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Debug("alive: failed to write response", slog.Any("error", err))
	}
}
