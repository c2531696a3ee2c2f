package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// pathPrefixes are the watch-page variants that carry the id as the next path segment.
var pathPrefixes = []string{"shorts", "embed", "live", "v", "e"}

// ExtractVideoID returns the 11-character id from any common YouTube URL form:
// watch?v=, youtu.be/<id>, /shorts/, /embed/, /live/ and /v/.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidVideoURL, err)
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch {
	case onDomain(host, "youtu.be"):
		id = segments[0]
	case onDomain(host, "youtube.com") || onDomain(host, "youtube-nocookie.com"):
		if segments[0] == "watch" {
			id = u.Query().Get("v")
			break
		}
		for _, prefix := range pathPrefixes {
			if segments[0] == prefix && len(segments) > 1 {
				id = segments[1]
				break
			}
		}
	default:
		return "", fmt.Errorf("%w: host %q is not YouTube", ErrInvalidVideoURL, host)
	}

	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: no video id in %q", ErrInvalidVideoURL, rawURL)
	}
	return id, nil
}

// onDomain reports whether host is domain or one of its subdomains.
func onDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
