// Package tracing wires OpenTelemetry into the summarizer: a process tracer
// provider, an HTTP server middleware and helpers for pipeline stage spans.
//
//	shutdown, err := tracing.InitProvider(ctx, tracing.LoadConfig())
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "summarize.extract")
//	defer span.End()
package tracing
