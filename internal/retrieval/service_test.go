package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/elio-bot/elio/internal/postgres"
)

type stubRecency struct {
	entries []postgres.Entry
	err     error
}

func (s *stubRecency) Recent(ctx context.Context, limit int) ([]postgres.Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.entries) > limit {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

type stubSearcher struct {
	texts []string
	err   error
}

func (s *stubSearcher) Search(ctx context.Context, query string, k int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.texts) > k {
		return s.texts[:k], nil
	}
	return s.texts, nil
}

func TestService_Recent(t *testing.T) {
	now := time.Now()
	svc := New(&stubRecency{entries: []postgres.Entry{
		{URL: "https://example.com/b", Summary: "newer", CreatedAt: now},
		{URL: "https://example.com/a", Summary: "older", CreatedAt: now.Add(-time.Hour)},
	}}, &stubSearcher{})

	entries, err := svc.Recent(t.Context(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(entries))
	}
	if entries[0].Summary != "newer" {
		t.Errorf("Recent()[0].Summary = %q, want newest first", entries[0].Summary)
	}
}

func TestService_Recent_Error(t *testing.T) {
	svc := New(&stubRecency{err: fmt.Errorf("db down")}, &stubSearcher{})

	if _, err := svc.Recent(t.Context(), 10); err == nil {
		t.Fatal("Recent() should propagate store errors")
	}
}

func TestService_SemanticSearch(t *testing.T) {
	svc := New(&stubRecency{}, &stubSearcher{texts: []string{"first hit", "second hit", "third", "fourth"}})

	results, err := svc.SemanticSearch(t.Context(), "query", 3)
	if err != nil {
		t.Fatalf("SemanticSearch() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("SemanticSearch() returned %d results, want 3", len(results))
	}
	if results[0] != "first hit" {
		t.Errorf("results[0] = %q, ranking should be preserved", results[0])
	}
}

func TestService_SemanticSearch_NoResults(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
	}{
		{"empty", nil},
		{"all blank", []string{"", "   ", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&stubRecency{}, &stubSearcher{texts: tt.texts})

			_, err := svc.SemanticSearch(t.Context(), "query", 3)
			if !errors.Is(err, ErrNoResults) {
				t.Fatalf("SemanticSearch() error = %v, want ErrNoResults", err)
			}
		})
	}
}

func TestService_SemanticSearch_DropsBlankHits(t *testing.T) {
	svc := New(&stubRecency{}, &stubSearcher{texts: []string{"", "real hit", "  "}})

	results, err := svc.SemanticSearch(t.Context(), "query", 3)
	if err != nil {
		t.Fatalf("SemanticSearch() error = %v", err)
	}
	if len(results) != 1 || results[0] != "real hit" {
		t.Errorf("results = %v, want only the non-blank hit", results)
	}
}
