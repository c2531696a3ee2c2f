package youtube

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"
)

// pickTrack selects an English caption track, preferring manual captions over
// auto-generated ("asr") ones and the configured language order over any
// other English variant. Tracks that need a browser PoToken are skipped.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.BaseURL != "" && !strings.Contains(t.BaseURL, "&exp=xpe") {
			usable = append(usable, t)
		}
	}

	matches := func(t captionTrack, lang string) bool {
		code := strings.ToLower(t.LanguageCode)
		lang = strings.ToLower(lang)
		return code == lang || strings.HasPrefix(code, lang+"-")
	}

	for _, manual := range []bool{true, false} {
		for _, lang := range langs {
			for _, t := range usable {
				if (t.Kind != "asr") == manual && matches(t, lang) {
					return t, true
				}
			}
		}
	}
	return captionTrack{}, false
}

// timedText covers both timedtext formats: the legacy <transcript><text>
// document and format 3 (<timedtext><body><p><s>).
type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
	Body struct {
		Paragraphs []struct {
			Text     string `xml:",chardata"`
			Segments []struct {
				Text string `xml:",chardata"`
			} `xml:"s"`
		} `xml:"p"`
	} `xml:"body"`
}

// parseTimedText joins caption lines into plain text. Lines are unescaped a
// second time because YouTube double-encodes entities such as &amp;#39;.
func parseTimedText(data []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", fmt.Errorf("parse YouTube timedtext XML: %w", err)
	}

	var lines []string
	for _, l := range tt.Lines {
		lines = append(lines, l.Text)
	}
	for _, p := range tt.Body.Paragraphs {
		if len(p.Segments) == 0 {
			lines = append(lines, p.Text)
			continue
		}
		var sb strings.Builder
		for _, s := range p.Segments {
			sb.WriteString(s.Text)
		}
		lines = append(lines, sb.String())
	}

	var sb strings.Builder
	for _, line := range lines {
		line = strings.Join(strings.Fields(html.UnescapeString(line)), " ")
		if line == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(line)
	}
	return sb.String(), nil
}
