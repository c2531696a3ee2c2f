package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"content-summarizer/pkg/config"
)

// Config controls the process tracer provider.
type Config struct {
	// Enabled installs an SDK provider; otherwise the otel no-op provider stays in place
	Enabled bool

	// ServiceName is reported as the service.name resource attribute
	ServiceName string

	// SampleRatio is the fraction of root traces sampled (0.0 to 1.0)
	SampleRatio float64
}

// LoadConfig reads TRACING_ENABLED, TRACING_SERVICE_NAME and TRACING_SAMPLE_RATIO.
func LoadConfig() Config {
	return Config{
		Enabled:     config.GetEnvBool("TRACING_ENABLED", false),
		ServiceName: config.GetEnvString("TRACING_SERVICE_NAME", TracerName),
		SampleRatio: config.GetEnvFloat("TRACING_SAMPLE_RATIO", 1.0),
	}
}

// Validate checks the sample ratio.
func (c Config) Validate() error {
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATIO must be within [0,1], got %v", c.SampleRatio)
	}
	return nil
}

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(context.Context) error

// InitProvider installs the global tracer provider and W3C propagators.
// Extra span processors (exporters) may be supplied by the caller.
func InitProvider(ctx context.Context, cfg Config, processors ...sdktrace.SpanProcessor) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("build tracing resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
