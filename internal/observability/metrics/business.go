package metrics

import (
	"time"
)

// Run statuses recorded by SummariesTotal.
const (
	StatusSuccess         = "success"
	StatusInvalidInput    = "invalid_input"
	StatusExtractFailed   = "extract_failed"
	StatusNoContent       = "no_content"
	StatusSummarizeFailed = "summarize_failed"
)

// RecordSummary records a finished run.
func RecordSummary(source, status string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	SummariesTotal.WithLabelValues(source, status).Inc()
	SummaryDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage, source string, duration time.Duration) {
	StageDuration.WithLabelValues(stage, source).Observe(duration.Seconds())
}

// RecordChunks records how many chunks a run produced.
func RecordChunks(n int) {
	ChunksPerSummary.Observe(float64(n))
}

// RecordExtractedText records the size of the text handed to the splitter.
func RecordExtractedText(source string, runes int) {
	ExtractedTextSize.WithLabelValues(source).Observe(float64(runes))
}

// RecordDescriptionFallback records a video summarized without captions.
func RecordDescriptionFallback() {
	TranscriptFallbackTotal.Inc()
}
