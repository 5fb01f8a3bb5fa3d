// Package processor turns raw fetched pages into the text fields a content
// record carries: markdown content, title, and keyword tags.
package processor

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// Processor normalizes scraped page content for capture.
type Processor struct{}

// New creates a new page content processor.
func New() *Processor {
	return &Processor{}
}

// Convert transforms HTML content into Markdown. Content that is already
// markdown (by content type or shape) is returned as-is.
func (p *Processor) Convert(pageURL, contentType, content string) (string, error) {
	if content == "" {
		return "", nil
	}
	if IsMarkdown(pageURL, contentType, content) {
		return strings.TrimSpace(content), nil
	}

	md, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// ExtractTitle returns the page title: the <title> element for HTML, the
// first H1 heading for markdown. Empty when neither is present.
func (p *Processor) ExtractTitle(pageURL, contentType, content string) string {
	if IsMarkdown(pageURL, contentType, content) {
		return markdownTitle(content)
	}
	return htmlTitle(content)
}

// ExtractKeywords splits a comma-separated keywords meta value into tags.
// Absent or blank input yields no tags.
func (p *Processor) ExtractKeywords(keywords string) []string {
	if strings.TrimSpace(keywords) == "" {
		return nil
	}
	var tags []string
	for _, kw := range strings.Split(keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			tags = append(tags, kw)
		}
	}
	return tags
}

// IsMarkdown reports whether fetched content is already markdown, checking
// the Content-Type header, then the URL extension, then content shape.
func IsMarkdown(pageURL, contentType, content string) bool {
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "text/markdown") || strings.HasPrefix(ct, "text/x-markdown") {
		return true
	}
	lower := strings.ToLower(pageURL)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		return true
	}
	trimmed := strings.TrimSpace(content)
	if looksLikeHTML(trimmed) {
		return false
	}
	return strings.HasPrefix(trimmed, "# ")
}

// looksLikeHTML checks if content appears to be an HTML document.
func looksLikeHTML(content string) bool {
	lower := strings.ToLower(content)
	return strings.HasPrefix(lower, "<!doctype") ||
		strings.HasPrefix(lower, "<html") ||
		strings.HasPrefix(lower, "<head") ||
		strings.HasPrefix(lower, "<body")
}

// htmlTitle extracts the <title> content from an HTML document.
func htmlTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var findTitle func(*html.Node)
	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}
	findTitle(doc)

	return strings.TrimSpace(title)
}

// markdownTitle extracts the first H1 heading from markdown content.
func markdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return ""
}
