package entity

import "fmt"

// VideoInfo is the metadata shown next to a video summary.
type VideoInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Duration       int    `json:"duration"`
	DurationString string `json:"duration_string"`
	Channel        string `json:"channel"`
	Thumbnail      string `json:"thumbnail"`
	Description    string `json:"-"`
}

// FormatDuration renders seconds the way video pages label them:
// "1:01:01" above an hour, "1:05" above a minute, and the bare seconds otherwise.
// Exactly 60 and 3600 stay in the shorter form ("60", "60:00").
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds > 3600:
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	case seconds > 60:
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%d", seconds)
	}
}
