// Package scraper fetches single web pages for the link adapter and hands
// back normalized capture content.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/elio-bot/elio/internal/processor"
)

// SourceName identifies the scraping capability in record metadata.
const SourceName = "colly"

// Config holds scraper configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Page is the result of scraping one URL.
type Page struct {
	URL         string    // final URL after redirects
	Title       string    // page title, empty when absent
	Content     string    // markdown content
	ContentType string    // HTTP Content-Type header
	Keywords    []string  // tags from the keywords meta element
	FetchedAt   time.Time // when the page was fetched
}

// Scraper fetches a single page per call. Unlike a crawler it never follows
// links; the capture pipeline deals in individual URLs.
type Scraper struct {
	config    Config
	processor *processor.Processor
}

// New creates a new Scraper with the given configuration.
func New(config Config) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "elio/1.0"
	}
	return &Scraper{
		config:    config,
		processor: processor.New(),
	}
}

// ScrapePage fetches the given URL and returns its normalized content.
// The context can be used to cancel the fetch.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) (*Page, error) {
	var page *Page
	var keywords string
	var fetchErr error

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(s.config.UserAgent),
	)
	c.SetRequestTimeout(s.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			slog.Debug("scrape cancelled", "url", r.URL.String())
			r.Abort()
		}
	})

	c.OnHTML(`meta[name="keywords"]`, func(e *colly.HTMLElement) {
		keywords = e.Attr("content")
	})

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode >= 400 {
			fetchErr = fmt.Errorf("fetch %s: status %d", r.Request.URL, r.StatusCode)
			return
		}
		page = &Page{
			URL:         r.Request.URL.String(),
			Content:     string(r.Body),
			ContentType: r.Headers.Get("Content-Type"),
			FetchedAt:   time.Now(),
		}
		slog.Debug("scraped page", "url", page.URL, "content_type", page.ContentType, "size", len(page.Content))
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: %w", pageURL, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	c.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if page == nil {
		return nil, fmt.Errorf("fetch %s: no response", pageURL)
	}

	raw := page.Content
	page.Title = s.processor.ExtractTitle(page.URL, page.ContentType, raw)

	md, err := s.processor.Convert(page.URL, page.ContentType, raw)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", pageURL, err)
	}
	page.Content = md
	page.Keywords = s.processor.ExtractKeywords(keywords)

	return page, nil
}
