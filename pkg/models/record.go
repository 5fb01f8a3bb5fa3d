package models

import (
	"fmt"
	"time"
)

// MediaType identifies which adapter produced a record and how it is rendered.
type MediaType string

const (
	MediaLink    MediaType = "link"
	MediaImage   MediaType = "image"
	MediaYouTube MediaType = "youtube"
)

// Valid reports whether m is one of the known media types.
func (m MediaType) Valid() bool {
	switch m {
	case MediaLink, MediaImage, MediaYouTube:
		return true
	}
	return false
}

// MetadataSource is the metadata key identifying the producing extraction
// capability. It is required on every record and used for display attribution.
const MetadataSource = "source"

// ContentRecord is the normalized extraction result flowing through the
// capture pipeline. The URL is the canonical identifier and the natural key
// for deduplication.
type ContentRecord struct {
	URL       string            `json:"url"`
	Title     string            `json:"title,omitempty"`
	Summary   string            `json:"summary,omitempty"`
	Content   string            `json:"content,omitempty"` // raw extracted text or transcript
	Tags      []string          `json:"tags,omitempty"`
	MediaType MediaType         `json:"media_type"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

// Source returns the producing capability recorded in the metadata, or "" if
// none was set.
func (r *ContentRecord) Source() string {
	return r.Metadata[MetadataSource]
}

// EmbedText returns the text used for the semantic index: the raw content when
// present, otherwise the summary.
func (r *ContentRecord) EmbedText() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Summary
}

// Validate checks the invariants a record must satisfy before persistence:
// a URL, a known media type, and at least one of content or summary.
func (r *ContentRecord) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("record has no url")
	}
	if !r.MediaType.Valid() {
		return fmt.Errorf("unknown media type %q", r.MediaType)
	}
	if r.Content == "" && r.Summary == "" {
		return fmt.Errorf("record %s has neither content nor summary", r.URL)
	}
	return nil
}
