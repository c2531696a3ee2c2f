package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-summarizer/internal/resilience/retry"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "collapses spaces and tabs", input: "a  \t b", want: "a b"},
		{name: "trims lines", input: "  one  \n   two ", want: "one\ntwo"},
		{name: "limits blank lines", input: "one\n\n\n\n\ntwo", want: "one\n\ntwo"},
		{name: "normalizes CRLF", input: "one\r\ntwo", want: "one\ntwo"},
		{name: "non-breaking space", input: "a\u00a0\u00a0b", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.input))
		})
	}
}

func TestExtractWithGoquery(t *testing.T) {
	body := []byte(`<html><head><title> Fallback Title </title><script>var x = 1;</script></head>
<body>
	<nav><p>Menu entry</p></nav>
	<main>
		<h2>Section</h2>
		<p>First   paragraph.</p>
		<ul><li>Item <p>nested</p></li></ul>
	</main>
	<footer><p>Footer text</p></footer>
</body></html>`)

	title, text := extractWithGoquery(body)
	assert.Equal(t, "Fallback Title", title)
	assert.Equal(t, "Section\n\nFirst paragraph.\n\nItem nested", text)
	assert.NotContains(t, text, "Menu entry")
	assert.NotContains(t, text, "Footer text")
}

func TestExtractWithGoquery_OGTitle(t *testing.T) {
	body := []byte(`<html><head><meta property="og:title" content="OG Title"></head><body><p>Hi</p></body></html>`)

	title, text := extractWithGoquery(body)
	assert.Equal(t, "OG Title", title)
	assert.Equal(t, "Hi", text)
}

func TestExtractArticle_UTF8WithoutMetaCharset(t *testing.T) {
	body := []byte("<html><head><title>Café menu</title></head><body><article><p>Un café crème, s'il vous plaît. " +
		strings.Repeat("Texte suffisant pour l'extraction. ", 20) + "</p></article></body></html>")
	u, _ := url.Parse("https://example.com/menu")

	art := extractArticle(body, u)
	assert.Contains(t, art.Text, "café crème")
	assert.NotContains(t, art.Text, "Ã")
}

func TestExtractArticle_Markdown(t *testing.T) {
	body := []byte(`<html><head><title>Lists and Headings</title></head><body><article>
		<h2>Overview of the approach</h2>
		<p>The running summary is refined with every chunk of text that follows it in the document, which keeps the context window small.</p>
		<p>Chunks overlap by a small margin so that sentences on a boundary are never lost between two consecutive refine steps of the chain.</p>
		<ul><li>Chunk size of one thousand characters</li><li>Overlap of one hundred characters</li></ul>
	</article></body></html>`)
	u, _ := url.Parse("https://example.com/post")

	art := extractArticle(body, u)
	assert.NotEmpty(t, art.Title)
	assert.Contains(t, art.Text, "Chunk size of one thousand characters")
	assert.Contains(t, art.Text, "refined with every chunk")
	assert.NotContains(t, art.Text, "<li>")
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.0.10", true},
		{"169.254.169.254", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"::1", true},
		{"fd00::1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"2606:4700:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.private, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}

func TestValidateURL(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, validateURL(ctx, "https://8.8.8.8/page", true))
	require.NoError(t, validateURL(ctx, "http://127.0.0.1:8080/", false))

	assert.ErrorIs(t, validateURL(ctx, "http://127.0.0.1:8080/", true), ErrPrivateIP)
	assert.ErrorIs(t, validateURL(ctx, "gopher://example.com", true), ErrInvalidURL)
	assert.ErrorIs(t, validateURL(ctx, "https://", true), ErrInvalidURL)
}

func TestDenyPrivateDial(t *testing.T) {
	assert.ErrorIs(t, denyPrivateDial("tcp", "127.0.0.1:80", nil), ErrPrivateIP)
	assert.ErrorIs(t, denyPrivateDial("tcp", "[::1]:443", nil), ErrPrivateIP)
	assert.ErrorIs(t, denyPrivateDial("tcp", "no-port", nil), ErrInvalidURL)
	assert.NoError(t, denyPrivateDial("tcp", "8.8.8.8:443", nil))
}

func TestIsCallerError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "404", err: fmt.Errorf("%w: %w", ErrUnexpectedStatus, &retry.HTTPError{StatusCode: 404}), want: true},
		{name: "410", err: &retry.HTTPError{StatusCode: 410}, want: true},
		{name: "429", err: &retry.HTTPError{StatusCode: 429}, want: false},
		{name: "408", err: &retry.HTTPError{StatusCode: 408}, want: false},
		{name: "500", err: &retry.HTTPError{StatusCode: 500}, want: false},
		{name: "not html", err: ErrNotHTML, want: true},
		{name: "too large", err: ErrBodyTooLarge, want: true},
		{name: "private ip", err: ErrPrivateIP, want: true},
		{name: "redirects", err: ErrTooManyRedirects, want: true},
		{name: "timeout", err: ErrTimeout, want: false},
		{name: "network", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCallerError(tt.err))
		})
	}
}

func TestContentTypeHelpers(t *testing.T) {
	assert.True(t, isHTML(""))
	assert.True(t, isHTML("text/html; charset=utf-8"))
	assert.True(t, isHTML("application/xhtml+xml"))
	assert.False(t, isHTML("application/json"))
	assert.True(t, isPlainText("text/plain; charset=us-ascii"))
	assert.False(t, isPlainText("text/html"))
}
