// Package llm wraps the Gemini API behind the narrow capabilities the capture
// pipeline consumes: summarize text, describe images, summarize videos,
// condense digest entries, and embed text for the semantic index.
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// EmbeddingDimensions is the vector size produced by Embed. Must match the
// dense-vector mapping of the semantic index.
const EmbeddingDimensions = 768

// maxInputChars limits text sent for summarization or embedding to stay well
// within the model context window.
const maxInputChars = 20000

// Config holds Gemini client configuration.
type Config struct {
	APIKey         string
	Model          string // generation model, e.g. "gemini-2.5-flash"
	EmbeddingModel string // embedding model, e.g. "gemini-embedding-001"
}

// Client wraps the Gemini API.
type Client struct {
	genai          *genai.Client
	model          string
	embeddingModel string
}

// New creates a new Gemini client.
func New(ctx context.Context, config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if config.Model == "" {
		config.Model = "gemini-2.5-flash"
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		genai:          client,
		model:          config.Model,
		embeddingModel: config.EmbeddingModel,
	}, nil
}

// SummarizeText condenses web page content into bullet points.
func (c *Client) SummarizeText(ctx context.Context, text string) (string, error) {
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text+"\n\n"+linkSummaryPrompt, genai.RoleUser),
	}

	out, err := c.generate(ctx, contents)
	if err != nil {
		return "", fmt.Errorf("text summary failed: %w", err)
	}
	return out, nil
}

// DescribeImage returns a combined description and OCR text for raw image
// bytes.
func (c *Client) DescribeImage(ctx context.Context, imageBytes []byte) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(imageBytes, "image/png"),
			genai.NewPartFromText(imageDescriptionPrompt),
		}, genai.RoleUser),
	}

	out, err := c.generate(ctx, contents)
	if err != nil {
		return "", fmt.Errorf("image description failed: %w", err)
	}
	return out, nil
}

// SummarizeVideo summarizes a YouTube video by URL. The video is never
// downloaded; the model consumes the URL directly.
func (c *Client) SummarizeVideo(ctx context.Context, videoURL string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(videoURL, "video/*"),
			genai.NewPartFromText(videoSummaryPrompt),
		}, genai.RoleUser),
	}

	out, err := c.generate(ctx, contents)
	if err != nil {
		return "", fmt.Errorf("video summary failed: %w", err)
	}
	return out, nil
}

// SummarizeEntries condenses digest lines (one "summary (url)" line per
// captured record) into a short bullet list.
func (c *Client) SummarizeEntries(ctx context.Context, lines []string) (string, error) {
	if len(lines) == 0 {
		return "No entries to summarize.", nil
	}

	var b strings.Builder
	b.WriteString(entriesSummaryPrompt)
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(b.String(), genai.RoleUser),
	}

	out, err := c.generate(ctx, contents)
	if err != nil {
		return "", fmt.Errorf("entries summary failed: %w", err)
	}
	return out, nil
}

// Embed generates an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	dim := int32(EmbeddingDimensions)
	resp, err := c.genai.Models.EmbedContent(ctx, c.embeddingModel,
		genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &dim},
	)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	return resp.Embeddings[0].Values, nil
}

// generate runs a plain-text generation call and trims the response.
func (c *Client) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "text/plain",
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return text, nil
}
