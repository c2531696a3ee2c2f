package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stages observed by StageDuration.
const (
	StageExtract   = "extract"
	StageSplit     = "split"
	StageSummarize = "summarize"
)

// Summary run metrics
var (
	// SummariesTotal counts finished summarization runs by source and status
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Total number of summarization runs",
		},
		[]string{"source", "status"},
	)

	// SummaryDuration measures the end-to-end run time
	SummaryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summary_duration_seconds",
			Help:    "End-to-end time to summarize a URL",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"source"},
	)

	// StageDuration measures each pipeline stage
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summary_stage_duration_seconds",
			Help:    "Time spent in each summarization stage",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage", "source"},
	)

	// ChunksPerSummary tracks how many chunks went through the refine chain
	ChunksPerSummary = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_chunks",
			Help:    "Number of chunks fed to the refine chain per run",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		},
	)

	// ExtractedTextSize measures extracted text length in runes
	ExtractedTextSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extracted_text_runes",
			Help:    "Length of extracted text in runes",
			Buckets: prometheus.ExponentialBuckets(250, 2, 12),
		},
		[]string{"source"},
	)

	// TranscriptFallbackTotal counts videos summarized from their description
	TranscriptFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_description_fallback_total",
			Help: "Videos summarized from the description because no English captions were available",
		},
	)
)
