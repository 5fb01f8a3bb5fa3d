// Package briefing condenses recently captured knowledge into a digest,
// on demand or on a daily schedule.
package briefing

import (
	"context"
	"fmt"
	"strings"

	"github.com/elio-bot/elio/internal/postgres"
)

// NothingNewMessage is the fixed reply when no knowledge was captured
// recently.
const NothingNewMessage = "No new knowledge captured in the last 24 hours."

// digestLimit caps how many entries a digest covers.
const digestLimit = 10

// RecentReader serves the newest captured entries.
type RecentReader interface {
	Recent(ctx context.Context, limit int) ([]postgres.Entry, error)
}

// EntriesSummarizer condenses digest lines into a short bullet list.
type EntriesSummarizer interface {
	SummarizeEntries(ctx context.Context, lines []string) (string, error)
}

// Service builds digests from recent entries.
type Service struct {
	reader     RecentReader
	summarizer EntriesSummarizer
}

// New creates a briefing service.
func New(reader RecentReader, summarizer EntriesSummarizer) *Service {
	return &Service{reader: reader, summarizer: summarizer}
}

// Generate formats the scheduled daily briefing: one line per recent entry,
// or the fixed nothing-new message when there are none.
func (s *Service) Generate(ctx context.Context) (string, error) {
	entries, err := s.reader.Recent(ctx, digestLimit)
	if err != nil {
		return "", fmt.Errorf("briefing: %w", err)
	}
	if len(entries) == 0 {
		return NothingNewMessage, nil
	}

	var b strings.Builder
	b.WriteString("**Elio's Memo: Daily Briefing**\n\n")
	b.WriteString("Here's a summary of what I've learned in the last 24 hours:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s** (%s)\n", e.Summary, e.URL)
	}
	return b.String(), nil
}

// SummarizeRecent builds the on-demand digest: recent entries condensed by
// the model into a bullet list.
func (s *Service) SummarizeRecent(ctx context.Context) (string, error) {
	entries, err := s.reader.Recent(ctx, digestLimit)
	if err != nil {
		return "", fmt.Errorf("briefing: %w", err)
	}
	if len(entries) == 0 {
		return NothingNewMessage, nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s (%s)", e.Summary, e.URL))
	}

	summary, err := s.summarizer.SummarizeEntries(ctx, lines)
	if err != nil {
		return "", fmt.Errorf("briefing summary: %w", err)
	}
	return summary, nil
}
