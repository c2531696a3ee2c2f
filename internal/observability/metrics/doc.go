// Package metrics holds the Prometheus collectors describing summarization runs:
// outcomes per source, per-stage latency, chunk counts and extracted text size.
// HTTP traffic collectors live with the HTTP middleware.
//
//	start := time.Now()
//	res, err := svc.Summarize(ctx, req)
//	metrics.RecordSummary("video", metrics.StatusFor(err), time.Since(start))
package metrics
