package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elio-bot/elio/internal/postgres"
	"github.com/elio-bot/elio/internal/retrieval"
)

// stubKnowledge serves canned entries and search hits.
type stubKnowledge struct {
	entries []postgres.Entry
	hits    []string
	gotK    int
}

func (k *stubKnowledge) Recent(ctx context.Context, limit int) ([]postgres.Entry, error) {
	if limit < len(k.entries) {
		return k.entries[:limit], nil
	}
	return k.entries, nil
}

func (k *stubKnowledge) SemanticSearch(ctx context.Context, query string, limit int) ([]string, error) {
	k.gotK = limit
	if len(k.hits) == 0 {
		return nil, retrieval.ErrNoResults
	}
	return k.hits, nil
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool returned error result: %v", result.Content)
	}
	if len(result.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestServer_Creation(t *testing.T) {
	s := NewServer(Config{Name: "elio", Version: "1.0.0"}, &stubKnowledge{})
	if s == nil {
		t.Fatal("NewServer() returned nil")
	}
	if s.mcpServer == nil {
		t.Error("mcpServer should not be nil")
	}
}

func TestServer_SearchKnowledge(t *testing.T) {
	knowledge := &stubKnowledge{hits: []string{"goroutine leak notes", "context cancellation"}}
	s := NewServer(Config{Name: "elio", Version: "1.0.0"}, knowledge)

	result, err := s.searchHandler(t.Context(),
		callRequest("search_knowledge", map[string]any{"query": "goroutines", "limit": 2}))
	if err != nil {
		t.Fatalf("searchHandler() error = %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "goroutine leak notes") {
		t.Errorf("result %q missing search hit", text)
	}
	if knowledge.gotK != 2 {
		t.Errorf("limit = %d, want 2", knowledge.gotK)
	}
}

func TestServer_SearchKnowledge_MissingQuery(t *testing.T) {
	s := NewServer(Config{Name: "elio", Version: "1.0.0"}, &stubKnowledge{})

	result, err := s.searchHandler(t.Context(), callRequest("search_knowledge", map[string]any{}))
	if err != nil {
		t.Fatalf("searchHandler() error = %v", err)
	}
	if !result.IsError {
		t.Error("missing query should produce a tool error result")
	}
}

func TestServer_SearchKnowledge_NoResults(t *testing.T) {
	s := NewServer(Config{Name: "elio", Version: "1.0.0"}, &stubKnowledge{})

	result, err := s.searchHandler(t.Context(),
		callRequest("search_knowledge", map[string]any{"query": "nothing indexed"}))
	if err != nil {
		t.Fatalf("searchHandler() error = %v", err)
	}
	if got := textContent(t, result); got != "[]" {
		t.Errorf("no-results payload = %q, want empty JSON array", got)
	}
}

func TestServer_RecentEntries(t *testing.T) {
	knowledge := &stubKnowledge{entries: []postgres.Entry{
		{URL: "https://example.com/a", Summary: "first", CreatedAt: time.Now()},
		{URL: "https://example.com/b", Summary: "second", CreatedAt: time.Now()},
	}}
	s := NewServer(Config{Name: "elio", Version: "1.0.0"}, knowledge)

	result, err := s.recentHandler(t.Context(),
		callRequest("recent_entries", map[string]any{"limit": 1}))
	if err != nil {
		t.Fatalf("recentHandler() error = %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "https://example.com/a") {
		t.Errorf("result %q missing newest entry", text)
	}
	if strings.Contains(text, "https://example.com/b") {
		t.Errorf("result %q should respect the limit", text)
	}
}
