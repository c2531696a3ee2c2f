// Package observability groups the logging, metrics and tracing helpers used
// by the summarizer.
//
// Subpackages:
//   - logging: slog construction and context propagation
//   - metrics: Prometheus collectors for HTTP traffic and summarization runs
//   - tracing: OpenTelemetry tracer, provider setup and HTTP middleware
package observability
