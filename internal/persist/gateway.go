// Package persist dual-writes content records: the relational store is the
// source of truth, the semantic index and the raw archive are best-effort
// secondaries. The dedup gate sits in front of all writes, so re-submitting
// a URL is a no-op across every store.
package persist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elio-bot/elio/pkg/models"
)

// RecordStore is the canonical, URL-unique store.
type RecordStore interface {
	Exists(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, record *models.ContentRecord) (bool, error)
}

// SemanticIndex is the best-effort vector store.
type SemanticIndex interface {
	Add(ctx context.Context, record *models.ContentRecord) error
}

// Archiver is the optional best-effort raw-content archive.
type Archiver interface {
	Store(ctx context.Context, record *models.ContentRecord) error
}

// StatusCode classifies the outcome of a persist call.
type StatusCode int

const (
	// StatusIndexed means the record was written to the canonical store.
	StatusIndexed StatusCode = iota
	// StatusAlreadyIndexed means the URL was captured before; nothing was
	// written anywhere.
	StatusAlreadyIndexed
	// StatusInvalid means the record failed validation; nothing was written.
	StatusInvalid
	// StatusFailed means the canonical write failed.
	StatusFailed
)

// Status is the outcome of a persist call. Err carries detail for the
// Invalid and Failed codes.
type Status struct {
	Code StatusCode
	Err  error
}

func (s Status) String() string {
	switch s.Code {
	case StatusIndexed:
		return "indexed"
	case StatusAlreadyIndexed:
		return "already indexed"
	case StatusInvalid:
		return fmt.Sprintf("invalid record: %v", s.Err)
	case StatusFailed:
		return fmt.Sprintf("persistence failed: %v", s.Err)
	}
	return "unknown"
}

// Gateway orders the writes and owns their failure domains.
type Gateway struct {
	store    RecordStore
	index    SemanticIndex
	archiver Archiver // nil when archiving is disabled
	logger   *slog.Logger
}

// New creates a persistence gateway. archiver may be nil.
func New(store RecordStore, index SemanticIndex, archiver Archiver) *Gateway {
	return &Gateway{
		store:    store,
		index:    index,
		archiver: archiver,
		logger:   slog.Default(),
	}
}

// Persist validates and stores a record. It never returns a Go error: every
// outcome, failures included, comes back as a Status so the per-URL
// processing boundary decides how to report it.
//
// The relational write is authoritative. The semantic index and the archive
// are written only after it commits, and their failures are logged and
// swallowed: search may lag a capture, the canonical record never does.
func (g *Gateway) Persist(ctx context.Context, record *models.ContentRecord) Status {
	if err := record.Validate(); err != nil {
		return Status{Code: StatusInvalid, Err: err}
	}

	exists, err := g.store.Exists(ctx, record.URL)
	if err != nil {
		return Status{Code: StatusFailed, Err: err}
	}
	if exists {
		g.logger.Debug("duplicate capture skipped", "url", record.URL)
		return Status{Code: StatusAlreadyIndexed}
	}

	inserted, err := g.store.Insert(ctx, record)
	if err != nil {
		return Status{Code: StatusFailed, Err: err}
	}
	if !inserted {
		// Lost the race against a concurrent capture of the same URL; the
		// unique constraint already holds the other row.
		g.logger.Debug("concurrent duplicate capture skipped", "url", record.URL)
		return Status{Code: StatusAlreadyIndexed}
	}

	if record.EmbedText() != "" {
		if err := g.index.Add(ctx, record); err != nil {
			g.logger.Warn("semantic index write failed", "url", record.URL, "error", err)
		}
	}

	if g.archiver != nil {
		if err := g.archiver.Store(ctx, record); err != nil {
			g.logger.Warn("archive write failed", "url", record.URL, "error", err)
		}
	}

	return Status{Code: StatusIndexed}
}
