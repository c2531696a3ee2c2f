// Package pathutil maps request paths to a bounded set of metric labels.
package pathutil

import "strings"

// OtherPath is the label used for every path outside the route table.
const OtherPath = "/other"

var knownPaths = map[string]struct{}{
	"/":                {},
	"/api/summaries":   {},
	"/api/models":      {},
	"/download":        {},
	"/static/page.css": {},
	"/health":          {},
	"/ready":           {},
	"/live":            {},
	"/metrics":         {},
}

// NormalizePath returns path if it is a registered route and OtherPath otherwise,
// so scanners probing random URLs cannot inflate label cardinality.
// Query strings and a trailing slash are ignored.
//
//	NormalizePath("/api/summaries/")  // "/api/summaries"
//	NormalizePath("/wp-login.php")    // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return OtherPath
}

// ExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func ExpectedCardinality() int {
	return len(knownPaths) + 1
}
