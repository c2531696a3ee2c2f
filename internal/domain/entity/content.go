package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// ContentType is the kind of content the user asked to summarize.
type ContentType string

const (
	// ContentTypeAuto routes by URL host.
	ContentTypeAuto ContentType = "auto"
	// ContentTypeVideo asks for the video path. Non-YouTube URLs still go to the article path.
	ContentTypeVideo ContentType = "video"
	// ContentTypeArticle forces the article path.
	ContentTypeArticle ContentType = "article"
)

// ParseContentType converts user input into a ContentType.
// An empty string maps to ContentTypeAuto.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ContentTypeAuto):
		return ContentTypeAuto, nil
	case string(ContentTypeVideo), "youtube", "youtube video":
		return ContentTypeVideo, nil
	case string(ContentTypeArticle), "web article":
		return ContentTypeArticle, nil
	default:
		return "", &ValidationError{
			Field:   "content_type",
			Message: fmt.Sprintf("invalid content type %q (must be auto, video or article)", s),
		}
	}
}

// Source is the loader branch a URL was routed to.
type Source string

const (
	SourceVideo   Source = "video"
	SourceArticle Source = "article"
)

// youTubeHosts are the registrable domains served by the video loader.
var youTubeHosts = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}

// IsYouTubeURL reports whether rawURL points at a YouTube host,
// including subdomains such as www., m. and music.
func IsYouTubeURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return false
	}
	for _, h := range youTubeHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ResolveSource picks the loader branch for a URL.
// ContentTypeArticle always yields SourceArticle. The other types take the video
// path only for YouTube URLs.
func ResolveSource(rawURL string, ct ContentType) Source {
	if ct == ContentTypeArticle {
		return SourceArticle
	}
	if IsYouTubeURL(rawURL) {
		return SourceVideo
	}
	return SourceArticle
}
