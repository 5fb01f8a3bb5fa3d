// Package postgres is the canonical record store. URL uniqueness is enforced
// by the table itself, so concurrent captures of the same URL cannot race the
// existence check into a duplicate row.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elio-bot/elio/pkg/models"
)

// schema defines the scraped_content table. The UNIQUE constraint on url is
// load-bearing: it is what makes re-submission idempotent under concurrency.
const schema = `
CREATE TABLE IF NOT EXISTS scraped_content (
	id         BIGSERIAL PRIMARY KEY,
	url        TEXT NOT NULL UNIQUE,
	content    TEXT,
	summary    TEXT,
	source     TEXT,
	metadata   JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS scraped_content_created_at_idx
	ON scraped_content (created_at DESC);
`

// Entry is a recency-query row: the tuple digests are built from.
type Entry struct {
	URL       string
	Summary   string
	CreatedAt time.Time
}

// Store wraps a pgx connection pool with the capture queries.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Connect opens a connection pool against the given DSN and verifies it.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool, logger: slog.Default()}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the scraped_content table and its recency index if
// they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Exists reports whether a record with the given URL is already stored.
func (s *Store) Exists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM scraped_content WHERE url = $1)`, url,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("existence check for %s: %w", url, err)
	}
	return exists, nil
}

// Insert writes a new row for the record and reports whether a row was
// actually written. ON CONFLICT DO NOTHING makes a lost dedup race come back
// as inserted == false instead of an error.
func (s *Store) Insert(ctx context.Context, record *models.ContentRecord) (bool, error) {
	var metadataJSON []byte
	if len(record.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return false, fmt.Errorf("marshal metadata for %s: %w", record.URL, err)
		}
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO scraped_content (url, content, summary, source, metadata)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (url) DO NOTHING`,
		record.URL,
		nullable(record.Content),
		nullable(record.Summary),
		nullable(record.Source()),
		metadataJSON,
	)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", record.URL, err)
	}

	inserted := tag.RowsAffected() == 1
	if inserted {
		s.logger.Debug("stored record", "url", record.URL, "media_type", record.MediaType)
	}
	return inserted, nil
}

// Recent returns up to limit entries ordered by creation time, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT url, COALESCE(summary, ''), created_at
		 FROM scraped_content
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.URL, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent rows: %w", err)
	}
	return entries, nil
}

// nullable maps empty strings to NULL so optional columns stay NULL instead
// of collecting empty text.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
