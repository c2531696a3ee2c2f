// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// YouTubeThumbnailHost serves the video thumbnails shown next to video summaries.
const YouTubeThumbnailHost = "https://i.ytimg.com"

// directiveOrder fixes the output order so headers are stable and diffable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// CSPBuilder provides a fluent interface for constructing Content-Security-Policy headers.
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'none'").
//	    StyleSrc("'self'").
//	    ImgSrc("'self'", "https://i.ytimg.com").
//	    Build()
//	// "default-src 'none'; style-src 'self'; img-src 'self' https://i.ytimg.com"
//
// CSPBuilder is not safe for concurrent mutation; build policies at startup.
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder creates an empty builder.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(directive string, sources []string) *CSPBuilder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets the fallback for every fetch directive not set explicitly.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder { return b.set("default-src", sources) }

// ScriptSrc sets script-src.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder { return b.set("script-src", sources) }

// StyleSrc sets style-src.
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder { return b.set("style-src", sources) }

// ImgSrc sets img-src.
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder { return b.set("img-src", sources) }

// FontSrc sets font-src.
func (b *CSPBuilder) FontSrc(sources ...string) *CSPBuilder { return b.set("font-src", sources) }

// ConnectSrc sets connect-src.
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder { return b.set("connect-src", sources) }

// FrameAncestors sets frame-ancestors; "'none'" forbids framing.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

// FormAction restricts where forms may submit.
func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder { return b.set("form-action", sources) }

// BaseUri restricts the document <base> element.
func (b *CSPBuilder) BaseUri(sources ...string) *CSPBuilder { return b.set("base-uri", sources) }

// ObjectSrc sets object-src.
func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder { return b.set("object-src", sources) }

// ReportUri sets the endpoint browsers post violation reports to.
func (b *CSPBuilder) ReportUri(uri string) *CSPBuilder {
	if uri == "" {
		delete(b.directives, "report-uri")
		return b
	}
	return b.set("report-uri", []string{uri})
}

// ReportOnly switches between enforcement and report-only headers.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	b.reportOnly = enabled
	return b
}

// Build returns the header value, or "" when no directive has sources.
func (b *CSPBuilder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, directive := range directiveOrder {
		if sources := b.directives[directive]; len(sources) > 0 {
			parts = append(parts, directive+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns Content-Security-Policy or its report-only variant.
func (b *CSPBuilder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// PagePolicy is the policy for the summary page: no scripts, same-origin
// styles and forms, and images from the origin plus imgHosts.
func PagePolicy(imgHosts ...string) *CSPBuilder {
	img := append([]string{"'self'", "data:"}, imgHosts...)
	return NewCSPBuilder().
		DefaultSrc("'none'").
		StyleSrc("'self'").
		ImgSrc(img...).
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseUri("'self'").
		ObjectSrc("'none'")
}

// StrictPolicy is the policy for JSON and plain-text endpoints, which never
// load subresources.
func StrictPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseUri("'none'").
		FormAction("'none'")
}
