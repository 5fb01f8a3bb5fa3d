// Package archive keeps a raw copy of captured content in object storage.
// It is strictly best-effort: the pipeline works identically with archiving
// disabled, and archive failures never affect persistence.
package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/elio-bot/elio/pkg/models"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO; empty disables archiving
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Client writes captured records to an S3-compatible store.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// captureMeta is the sidecar JSON written next to each archived record.
type captureMeta struct {
	URL        string   `json:"url"`
	Title      string   `json:"title,omitempty"`
	MediaType  string   `json:"media_type"`
	Source     string   `json:"source,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	CapturedAt string   `json:"captured_at"`
}

// New creates a new archive client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{minioClient: minioClient, bucket: config.Bucket}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store archives one captured record: its text under
// captures/<host>/<id>.md and a metadata sidecar under
// captures/<host>/<id>.json.
func (c *Client) Store(ctx context.Context, record *models.ContentRecord) error {
	prefix := capturePrefix(record.URL)
	id := captureID(record.URL)

	text := record.Content
	if text == "" {
		text = record.Summary
	}

	if err := c.put(ctx, path.Join(prefix, id+".md"), []byte(text), "text/markdown"); err != nil {
		return fmt.Errorf("archive content for %s: %w", record.URL, err)
	}

	meta := captureMeta{
		URL:        record.URL,
		Title:      record.Title,
		MediaType:  string(record.MediaType),
		Source:     record.Source(),
		Tags:       record.Tags,
		CapturedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal capture metadata: %w", err)
	}
	if err := c.put(ctx, path.Join(prefix, id+".json"), data, "application/json"); err != nil {
		return fmt.Errorf("archive metadata for %s: %w", record.URL, err)
	}

	return nil
}

func (c *Client) put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// capturePrefix groups archived captures by source host.
func capturePrefix(rawURL string) string {
	host := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}
	return path.Join("captures", host)
}

// captureID derives a stable object name from the record URL.
func captureID(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])[:16]
}
