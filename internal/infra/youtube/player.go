package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"content-summarizer/internal/domain/entity"
)

const playabilityOK = "OK"

var playerResponseMarker = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*`)

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type thumbnails struct {
	Thumbnails []thumbnail `json:"thumbnails"`
}

// best returns the widest thumbnail URL.
func (t thumbnails) best() string {
	var out thumbnail
	for _, th := range t.Thumbnails {
		if th.URL != "" && th.Width >= out.Width {
			out = th
		}
	}
	return out.URL
}

type simpleText struct {
	SimpleText string `json:"simpleText"`
}

type captionTrack struct {
	BaseURL      string     `json:"baseUrl"`
	LanguageCode string     `json:"languageCode"`
	Kind         string     `json:"kind"` // "asr" = auto-generated
	Name         simpleText `json:"name"`
}

// playerResponse is the subset of ytInitialPlayerResponse we read.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID          string     `json:"videoId"`
		Title            string     `json:"title"`
		LengthSeconds    string     `json:"lengthSeconds"`
		Author           string     `json:"author"`
		ShortDescription string     `json:"shortDescription"`
		Thumbnail        thumbnails `json:"thumbnail"`
	} `json:"videoDetails"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			Title            simpleText `json:"title"`
			Description      simpleText `json:"description"`
			LengthSeconds    string     `json:"lengthSeconds"`
			OwnerChannelName string     `json:"ownerChannelName"`
			Thumbnail        thumbnails `json:"thumbnail"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

func (p *playerResponse) playable() bool {
	return p.PlayabilityStatus.Status == playabilityOK
}

func (p *playerResponse) captionTracks() []captionTrack {
	if p.Captions == nil {
		return nil
	}
	return p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
}

// videoInfo merges videoDetails with the microformat fallbacks.
func (p *playerResponse) videoInfo(id string) *entity.VideoInfo {
	vd := p.VideoDetails
	mf := p.Microformat.PlayerMicroformatRenderer

	info := &entity.VideoInfo{
		ID:          firstNonEmpty(vd.VideoID, id),
		Title:       firstNonEmpty(vd.Title, mf.Title.SimpleText),
		Channel:     firstNonEmpty(vd.Author, mf.OwnerChannelName),
		Description: firstNonEmpty(vd.ShortDescription, mf.Description.SimpleText),
		Thumbnail:   firstNonEmpty(vd.Thumbnail.best(), mf.Thumbnail.best()),
	}
	if info.Thumbnail == "" {
		info.Thumbnail = "https://i.ytimg.com/vi/" + info.ID + "/hqdefault.jpg"
	}

	seconds, err := strconv.Atoi(firstNonEmpty(vd.LengthSeconds, mf.LengthSeconds))
	if err == nil {
		info.Duration = seconds
	}
	info.DurationString = entity.FormatDuration(info.Duration)

	return info
}

// parsePlayerResponse finds the <script> that assigns ytInitialPlayerResponse
// and decodes the object literal it holds.
func parsePlayerResponse(page []byte) (*playerResponse, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse YouTube watch page: %w", err)
	}

	var raw []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		script := s.Text()
		loc := playerResponseMarker.FindStringIndex(script)
		if loc == nil {
			return true
		}
		raw = extractJSON([]byte(script[loc[1]:]))
		return raw == nil
	})
	if raw == nil {
		return nil, ErrPlayerResponseNotFound
	}

	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("decode YouTube player response: %w", err)
	}
	return &pr, nil
}

// extractJSON returns the balanced JSON object at the start of b, or nil.
// Braces inside strings are ignored and escaped quotes do not end a string.
func extractJSON(b []byte) []byte {
	b = bytes.TrimLeft(b, " \t\r\n")
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
