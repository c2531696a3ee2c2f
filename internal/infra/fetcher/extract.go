package fetcher

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// article is the text and metadata pulled out of an HTML page.
type article struct {
	Title    string
	SiteName string
	Byline   string
	Text     string
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
	noiseSelectors  = strings.Join([]string{
		"script", "style", "noscript", "iframe", "svg", "form",
		"header", "footer", "nav", "aside",
		".advertisement", ".ad", ".sidebar", ".comments",
		"[role=navigation]", "[role=banner]", "[role=contentinfo]",
	}, ", ")
)

// extractArticle runs readability and converts the article HTML to Markdown so
// headings and lists survive. It falls back to readability's plain text, then
// to a goquery pass over the main content container.
//
// body must already be UTF-8. The document is parsed here and handed to
// readability as a tree, since readability.FromReader sniffs the charset
// again and mangles pages that carry no meta charset.
func extractArticle(body []byte, pageURL *url.URL) article {
	var out article

	var parsed readability.Article
	doc, err := html.Parse(bytes.NewReader(body))
	if err == nil {
		parsed, err = readability.FromDocument(doc, pageURL)
	}
	if err == nil {
		out.Title = strings.TrimSpace(parsed.Title)
		out.SiteName = strings.TrimSpace(parsed.SiteName)
		out.Byline = strings.TrimSpace(parsed.Byline)

		if parsed.Content != "" {
			if md, mdErr := htmltomarkdown.ConvertString(parsed.Content); mdErr == nil {
				out.Text = cleanText(md)
			}
		}
		if out.Text == "" {
			out.Text = cleanText(parsed.TextContent)
		}
	}

	if out.Text == "" || out.Title == "" {
		title, text := extractWithGoquery(body)
		if out.Title == "" {
			out.Title = title
		}
		if out.Text == "" {
			out.Text = text
		}
	}

	return out
}

// extractWithGoquery strips boilerplate elements and returns the page title
// and the text of the first article/main container (or body).
func extractWithGoquery(body []byte) (title, text string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}

	doc.Find(noiseSelectors).Remove()

	content := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	var parts []string
	content.Find("h1, h2, h3, h4, p, li, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("p, li, blockquote").Length() > 0 {
			return
		}
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		parts = append(parts, content.Text())
	}

	return title, cleanText(strings.Join(parts, "\n\n"))
}

// cleanText collapses runs of horizontal whitespace, trims every line and
// keeps at most one blank line between paragraphs.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
