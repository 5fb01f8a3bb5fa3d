package ingest

import (
	"strings"

	"github.com/elio-bot/elio/pkg/models"
)

// maxDescriptionLen bounds the rendered description of a captured record.
const maxDescriptionLen = 1000

// DisplayTitle returns the title shown for a result: the record title when
// present, otherwise a generic one derived from the media kind.
func (r *Result) DisplayTitle() string {
	if r.Record != nil && r.Record.Title != "" {
		return r.Record.Title
	}
	kind := string(r.Kind)
	if kind == "" {
		return "Captured content"
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + " content"
}

// DisplayDescription returns the description shown for a result: the summary
// when present, otherwise the raw content truncated with an ellipsis.
func (r *Result) DisplayDescription() string {
	if r.Record == nil {
		return "No description."
	}
	if r.Record.Summary != "" {
		return r.Record.Summary
	}
	if r.Record.Content != "" {
		return truncate(r.Record.Content, maxDescriptionLen)
	}
	return "No description."
}

// DisplayFooter returns the attribution line for a result.
func (r *Result) DisplayFooter() string {
	if r.Record != nil {
		if source := r.Record.Source(); source != "" {
			return source
		}
	}
	return "Unknown source"
}

// ShowImagePreview reports whether the rendered response should embed the
// captured URL as an image.
func (r *Result) ShowImagePreview() bool {
	return r.Record != nil && r.Record.MediaType == models.MediaImage
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
