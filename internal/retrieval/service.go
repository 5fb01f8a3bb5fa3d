// Package retrieval reads captured knowledge back out: recent entries for
// digests and nearest-neighbor text search for ad-hoc queries. Both paths
// are read-only.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elio-bot/elio/internal/postgres"
)

// ErrNoResults reports that a semantic search produced nothing usable, so
// callers can render a "no results" message instead of an empty list.
var ErrNoResults = errors.New("no results")

// RecencyStore serves the newest captured entries.
type RecencyStore interface {
	Recent(ctx context.Context, limit int) ([]postgres.Entry, error)
}

// Searcher performs nearest-neighbor text queries.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}

// Service combines the two read paths.
type Service struct {
	store    RecencyStore
	searcher Searcher
}

// New creates a retrieval service.
func New(store RecencyStore, searcher Searcher) *Service {
	return &Service{store: store, searcher: searcher}
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]postgres.Entry, error) {
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	return entries, nil
}

// SemanticSearch returns up to k stored texts ranked by similarity to query.
// Blank hits are dropped; when nothing usable remains the error is
// ErrNoResults.
func (s *Service) SemanticSearch(ctx context.Context, query string, k int) ([]string, error) {
	texts, err := s.searcher.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	results := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			results = append(results, t)
		}
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}
