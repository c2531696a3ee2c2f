package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"content-summarizer/internal/app"
	"content-summarizer/internal/config"
	hhttp "content-summarizer/internal/handler/http"
	"content-summarizer/internal/handler/http/middleware"
	"content-summarizer/internal/observability/logging"
	"content-summarizer/internal/observability/tracing"
	loader "content-summarizer/internal/pkg/config"
	"content-summarizer/pkg/security/csp"
)

func main() {
	logger := initLogger()

	cfg, err := config.LoadServerConfig(logger, loader.NewConfigMetrics("server", nil))
	if err != nil {
		logger.Error("failed to load server configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := initTracing(logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	pipeline, err := app.NewPipeline(logger)
	if err != nil {
		logger.Error("failed to build summarize pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	components := setupServer(logger, cfg, pipeline)
	runServer(logger, cfg, components)
}

// initLogger initializes the process logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initTracing installs the tracer provider. Tracing failures never stop the server.
func initTracing(logger *slog.Logger) tracing.ShutdownFunc {
	tcfg := tracing.LoadConfig()
	shutdown, err := tracing.InitProvider(context.Background(), tcfg)
	if err != nil {
		logger.Warn("tracing disabled", slog.Any("error", err))
		return func(context.Context) error { return nil }
	}
	if tcfg.Enabled {
		logger.Info("tracing enabled",
			slog.String("service", tcfg.ServiceName),
			slog.Float64("sample_ratio", tcfg.SampleRatio))
	}
	return shutdown
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	Pipeline    *app.Pipeline
	RateLimiter *middleware.RateLimiter
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, cfg config.ServerConfig, pipeline *app.Pipeline) *ServerComponents {
	var limiter *middleware.RateLimiter
	rlCfg := middleware.LoadRateLimitConfig()
	if rlCfg.Enabled {
		proxyCfg, err := middleware.LoadTrustedProxyConfig()
		if err != nil {
			logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
			os.Exit(1)
		}
		var extractor middleware.IPExtractor = &middleware.RemoteAddrExtractor{}
		if proxyCfg.Enabled {
			extractor = middleware.NewTrustedProxyExtractor(*proxyCfg)
		}
		limiter = middleware.NewRateLimiter(rlCfg, extractor)
		logger.Info("rate limiting initialized",
			slog.Float64("per_minute", rlCfg.PerMinute),
			slog.Int("burst", rlCfg.Burst),
			slog.Bool("trust_proxy", proxyCfg.Enabled))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	cspMW := middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
		Enabled:       cfg.CSPEnabled,
		DefaultPolicy: csp.StrictPolicy(),
		PathPolicies: map[string]*csp.CSPBuilder{
			"/": csp.PagePolicy(csp.YouTubeThumbnailHost),
		},
		ReportOnly: cfg.CSPReportOnly,
	})
	if cfg.CSPEnabled {
		logger.Info("CSP enabled", slog.Bool("report_only", cfg.CSPReportOnly))
	} else {
		logger.Warn("CSP is disabled")
	}

	handler := hhttp.NewRouter(hhttp.Deps{
		Service:        pipeline.Service,
		Models:         pipeline.Registry,
		Logger:         logger,
		Version:        cfg.Version,
		Breakers:       pipeline.Breakers,
		RateLimiter:    limiter,
		CSP:            cspMW,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	return &ServerComponents{
		Handler:     handler,
		Pipeline:    pipeline,
		RateLimiter: limiter,
	}
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg config.ServerConfig, components *ServerComponents) {
	// Create a context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go components.Pipeline.Run(ctx)
	if components.RateLimiter != nil {
		go components.RateLimiter.RunCleanup(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout, // Prevent Slowloris attacks
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// In-flight summaries finish before background work stops.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	cancel()
	logger.Info("server stopped")
}
