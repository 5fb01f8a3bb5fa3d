package extract

import (
	"context"

	"github.com/elio-bot/elio/internal/scraper"
	"github.com/elio-bot/elio/pkg/models"
)

// PageScraper fetches a single page and returns its normalized content.
type PageScraper interface {
	ScrapePage(ctx context.Context, url string) (*scraper.Page, error)
}

// TextSummarizer condenses page text into a short summary.
type TextSummarizer interface {
	SummarizeText(ctx context.Context, text string) (string, error)
}

// LinkAdapter captures regular web pages: it scrapes the page, keeps the
// markdown content, and summarizes it when there is anything to summarize.
type LinkAdapter struct {
	scraper    PageScraper
	summarizer TextSummarizer
	source     string
}

// NewLinkAdapter creates the adapter for plain links.
func NewLinkAdapter(s PageScraper, sum TextSummarizer) *LinkAdapter {
	return &LinkAdapter{scraper: s, summarizer: sum, source: scraper.SourceName}
}

// Extract fetches and summarizes the page at url.
func (a *LinkAdapter) Extract(ctx context.Context, url string) (*models.ContentRecord, error) {
	page, err := a.scraper.ScrapePage(ctx, url)
	if err != nil {
		return nil, &Error{Input: url, Err: err}
	}

	var summary string
	if page.Content != "" {
		summary, err = a.summarizer.SummarizeText(ctx, page.Content)
		if err != nil {
			return nil, &Error{Input: url, Err: err}
		}
	}

	return &models.ContentRecord{
		URL:       page.URL,
		Title:     page.Title,
		Summary:   summary,
		Content:   page.Content,
		Tags:      page.Keywords,
		MediaType: models.MediaLink,
		Metadata:  map[string]string{models.MetadataSource: a.source},
		CreatedAt: page.FetchedAt,
	}, nil
}
