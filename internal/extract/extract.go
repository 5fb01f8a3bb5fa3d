// Package extract holds the per-media-kind extraction adapters and the
// dispatcher that routes a classified URL to the right one.
//
// The adapter set is deliberately closed: adding a media kind means adding
// both a classifier rule and an adapter here. Unknown kinds are a dispatch
// error, never routed to a fallback.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/elio-bot/elio/pkg/models"
)

// ErrUnknownKind is returned by Dispatch when no adapter is registered for a
// media kind.
var ErrUnknownKind = errors.New("unknown media kind")

// Error wraps an adapter failure with the input it was extracting.
type Error struct {
	Input string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Input, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Adapter produces a content record from a raw input URL.
type Adapter interface {
	Extract(ctx context.Context, input string) (*models.ContentRecord, error)
}

// Registry maps media kinds to their adapters.
type Registry struct {
	adapters map[models.MediaType]Adapter
}

// NewRegistry builds the closed adapter set.
func NewRegistry(link, image, video Adapter) *Registry {
	return &Registry{
		adapters: map[models.MediaType]Adapter{
			models.MediaLink:    link,
			models.MediaImage:   image,
			models.MediaYouTube: video,
		},
	}
}

// Dispatch looks up the adapter for kind and delegates to it. Adapter errors
// propagate unchanged; a missing adapter is an ErrUnknownKind.
func (r *Registry) Dispatch(ctx context.Context, kind models.MediaType, input string) (*models.ContentRecord, error) {
	adapter, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return adapter.Extract(ctx, input)
}
