// Package ingest orchestrates the capture pipeline: URL extraction,
// classification, adapter dispatch, and persistence. URLs within one inbound
// event are processed sequentially and each failure stays isolated to its
// own URL.
package ingest

import (
	"context"
	"regexp"
	"time"

	"github.com/elio-bot/elio/internal/classify"
	"github.com/elio-bot/elio/internal/persist"
	"github.com/elio-bot/elio/pkg/models"
)

// urlPattern matches http(s) URLs embedded in free-form message text.
var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURLs returns all URLs found in text, in order of appearance.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// Dispatcher routes a classified kind to its extraction adapter.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind models.MediaType, input string) (*models.ContentRecord, error)
}

// Persister stores an extracted record.
type Persister interface {
	Persist(ctx context.Context, record *models.ContentRecord) persist.Status
}

// Result is the outcome of processing one URL. Err is set when extraction
// failed before persistence was attempted; otherwise Status reports the
// persistence outcome and Record holds the extracted content.
type Result struct {
	URL    string
	Kind   models.MediaType
	Record *models.ContentRecord
	Status persist.Status
	Err    error
}

// Failed reports whether this URL produced nothing persistable.
func (r *Result) Failed() bool {
	if r.Err != nil {
		return true
	}
	return r.Status.Code == persist.StatusInvalid || r.Status.Code == persist.StatusFailed
}

// Pipeline wires classification, dispatch, and persistence together.
type Pipeline struct {
	registry Dispatcher
	gateway  Persister
	timeout  time.Duration // per-URL budget for extraction + persistence
}

// New creates a capture pipeline. timeout bounds the processing of each URL;
// zero means 2 minutes.
func New(registry Dispatcher, gateway Persister, timeout time.Duration) *Pipeline {
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &Pipeline{registry: registry, gateway: gateway, timeout: timeout}
}

// ProcessText captures every URL mentioned in an inbound message, plus any
// attachment URLs, one at a time. One URL failing never aborts the rest;
// every URL gets its own Result.
func (p *Pipeline) ProcessText(ctx context.Context, text string, attachmentURLs []string) []Result {
	urls := append(ExtractURLs(text), attachmentURLs...)

	results := make([]Result, 0, len(urls))
	for _, u := range urls {
		if ctx.Err() != nil {
			results = append(results, Result{URL: u, Err: ctx.Err()})
			continue
		}
		results = append(results, p.ProcessURL(ctx, u))
	}
	return results
}

// ProcessURL runs one URL through classify → dispatch → persist.
func (p *Pipeline) ProcessURL(ctx context.Context, url string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	kind := classify.Classify(url)
	result := Result{URL: url, Kind: kind}

	record, err := p.registry.Dispatch(ctx, kind, url)
	if err != nil {
		result.Err = err
		return result
	}

	result.Record = record
	result.Status = p.gateway.Persist(ctx, record)
	return result
}
