package vector

import (
	"context"
	"hash/fnv"
	"testing"
	"time"

	"github.com/elio-bot/elio/internal/llm"
	"github.com/elio-bot/elio/pkg/models"
)

// fakeEmbedder produces deterministic vectors so kNN ranking is stable
// without calling a real model. Texts sharing words get closer vectors.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, llm.EmbeddingDimensions)
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()
	for i := range v {
		v[i] = float32((seed>>(uint(i)%24))&0xff) / 255.0
	}
	return v, nil
}

func testClient(t *testing.T, index string) *Client {
	t.Helper()

	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     index,
	}, fakeEmbedder{})
	if err != nil {
		t.Skipf("Skipping ES tests: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		t.Skip("Skipping ES tests: Elasticsearch not available")
	}
	return client
}

func TestClient_EnsureIndex(t *testing.T) {
	client := testClient(t, "elio-test-create")
	ctx := t.Context()

	client.DeleteIndex(ctx)
	if err := client.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex() error = %v", err)
	}
	// Second call must be a no-op.
	if err := client.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex() on existing index error = %v", err)
	}
	client.DeleteIndex(ctx)
}

func TestClient_AddAndSearch(t *testing.T) {
	client := testClient(t, "elio-test-search")
	ctx := t.Context()

	client.DeleteIndex(ctx)
	if err := client.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex() error = %v", err)
	}
	defer client.DeleteIndex(ctx)

	record := &models.ContentRecord{
		URL:       "https://example.com/dl",
		Title:     "Deep Learning Intro",
		Summary:   "Neural networks and deep learning.",
		MediaType: models.MediaLink,
		Tags:      []string{"ai", "deep-learning"},
	}
	if err := client.Add(ctx, record); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := client.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	texts, err := client.Search(ctx, "Neural networks and deep learning.", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(texts) == 0 {
		t.Fatal("Search() should return the indexed document")
	}
	if texts[0] != record.Summary {
		t.Errorf("Search()[0] = %q, want stored summary", texts[0])
	}
}

func TestClient_Add_SameURLOverwrites(t *testing.T) {
	client := testClient(t, "elio-test-overwrite")
	ctx := t.Context()

	client.DeleteIndex(ctx)
	if err := client.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex() error = %v", err)
	}
	defer client.DeleteIndex(ctx)

	record := &models.ContentRecord{
		URL:       "https://example.com/one",
		Summary:   "first version",
		MediaType: models.MediaLink,
	}
	if err := client.Add(ctx, record); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	record.Summary = "second version"
	if err := client.Add(ctx, record); err != nil {
		t.Fatalf("second Add() error = %v", err)
	}
	if err := client.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	texts, err := client.Search(ctx, "second version", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(texts) != 1 {
		t.Fatalf("same URL should be one document, got %d", len(texts))
	}
}

func TestClient_Add_NoText(t *testing.T) {
	client, err := New(Config{Addresses: []string{"http://localhost:9200"}}, fakeEmbedder{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	record := &models.ContentRecord{URL: "https://example.com/empty", MediaType: models.MediaLink}
	if err := client.Add(t.Context(), record); err == nil {
		t.Fatal("Add() should fail for a record with no embeddable text")
	}
}
