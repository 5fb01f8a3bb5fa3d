// Package vector is the semantic index over captured records: Elasticsearch
// documents keyed by URL with a dense-vector embedding of the record text.
// It is a best-effort secondary index; the relational store stays
// authoritative.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/elio-bot/elio/internal/llm"
	"github.com/elio-bot/elio/pkg/models"
)

// Embedder turns text into the vector stored alongside each document.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Document is what gets indexed per captured record. The document id is the
// record URL, Text is the embed target.
type Document struct {
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	MediaType string    `json:"media_type"`
	Tags      string    `json:"tags,omitempty"` // comma-joined
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Client wraps the Elasticsearch client with semantic-index operations.
type Client struct {
	es       *elasticsearch.Client
	index    string
	embedder Embedder
}

// New creates a new semantic index client.
func New(config Config, embedder Embedder) (*Client, error) {
	if config.Index == "" {
		config.Index = "scraped_content"
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	return &Client{es: es, index: config.Index, embedder: embedder}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// indexMapping defines the semantic index. Embedding dimensions must match
// what the embedder produces.
var indexMapping = fmt.Sprintf(`{
	"mappings": {
		"properties": {
			"url": { "type": "keyword" },
			"title": { "type": "text" },
			"media_type": { "type": "keyword" },
			"tags": { "type": "text" },
			"text": { "type": "text" },
			"embedding": {
				"type": "dense_vector",
				"dims": %d,
				"index": true,
				"similarity": "cosine"
			}
		}
	}
}`, llm.EmbeddingDimensions)

// EnsureIndex creates the index with its mapping if it does not exist.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	return nil
}

// DeleteIndex removes the index (for testing/cleanup).
func (c *Client) DeleteIndex(ctx context.Context) error {
	res, err := c.es.Indices.Delete([]string{c.index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// Add embeds the record's text and indexes it keyed by URL. Re-adding the
// same URL overwrites the previous document rather than duplicating it.
func (c *Client) Add(ctx context.Context, record *models.ContentRecord) error {
	text := record.EmbedText()
	if text == "" {
		return fmt.Errorf("record %s has no text to embed", record.URL)
	}

	embedding, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %s: %w", record.URL, err)
	}

	doc := Document{
		URL:       record.URL,
		Title:     record.Title,
		MediaType: string(record.MediaType),
		Tags:      strings.Join(record.Tags, ","),
		Text:      text,
		Embedding: embedding,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", record.URL, err)
	}

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(record.URL),
	)
	if err != nil {
		return fmt.Errorf("index document %s: %w", record.URL, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing %s (status %d): %s", record.URL, res.StatusCode, res.String())
	}
	return nil
}

// Refresh forces an index refresh (useful for testing).
func (c *Client) Refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(c.index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// searchResponse represents the ES search response structure.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search embeds the query and returns the stored texts of the k nearest
// documents, ranked by cosine similarity.
func (c *Client) Search(ctx context.Context, query string, k int) ([]string, error) {
	queryEmbedding, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	searchQuery := map[string]any{
		"knn": map[string]any{
			"field":          "embedding",
			"query_vector":   queryEmbedding,
			"k":              k,
			"num_candidates": k * 10,
		},
		"_source": []string{"text"},
		"size":    k,
	}

	data, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	texts := make([]string, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		texts = append(texts, hit.Source.Text)
	}
	return texts, nil
}
