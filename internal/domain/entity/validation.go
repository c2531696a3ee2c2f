package entity

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// ValidateURL checks that rawURL is a well-formed http(s) URL.
// It is a pure format check and never touches the network; reachability and
// private-address checks belong to the loaders.
// Returns a ValidationError if the URL is invalid or empty.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	if strings.ContainsAny(rawURL, " \t\r\n") {
		return &ValidationError{Field: "url", Message: "URL must not contain whitespace"}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "URL is invalid"}
	}

	// HTTPまたはHTTPSスキームのみ許可
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	host := parsedURL.Hostname()
	if host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	if parsedURL.User != nil {
		return &ValidationError{Field: "url", Message: "URL must not contain credentials"}
	}

	if !validHost(host) {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	if port := parsedURL.Port(); port != "" && !validPort(port) {
		return &ValidationError{Field: "url", Message: "URL port is invalid"}
	}

	return nil
}

// validHost accepts IP literals, localhost and dotted DNS names made of
// letters, digits and hyphens with a non-numeric top-level label.
func validHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "localhost" {
		return true
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	tld := labels[len(labels)-1]
	for _, r := range tld {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

func validLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		case r > 127:
			// internationalized labels are passed through as-is
		default:
			return false
		}
	}
	return true
}

func validPort(port string) bool {
	n := 0
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
		if n > 65535 {
			return false
		}
	}
	return n > 0
}
