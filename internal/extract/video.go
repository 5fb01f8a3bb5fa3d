package extract

import (
	"context"
	"time"

	"github.com/elio-bot/elio/pkg/models"
)

// videoSource attributes video records to the summarization capability.
const videoSource = "gemini"

// VideoSummarizer summarizes a video directly from its URL.
type VideoSummarizer interface {
	SummarizeVideo(ctx context.Context, videoURL string) (string, error)
}

// VideoAdapter captures YouTube videos. The URL goes straight to the
// summarization capability, nothing is downloaded locally, and the capability
// surfaces neither raw content nor a title.
type VideoAdapter struct {
	summarizer VideoSummarizer
}

// NewVideoAdapter creates the adapter for YouTube URLs.
func NewVideoAdapter(summarizer VideoSummarizer) *VideoAdapter {
	return &VideoAdapter{summarizer: summarizer}
}

// Extract summarizes the video at url.
func (a *VideoAdapter) Extract(ctx context.Context, url string) (*models.ContentRecord, error) {
	summary, err := a.summarizer.SummarizeVideo(ctx, url)
	if err != nil {
		return nil, &Error{Input: url, Err: err}
	}

	return &models.ContentRecord{
		URL:       url,
		Summary:   summary,
		MediaType: models.MediaYouTube,
		Metadata:  map[string]string{models.MetadataSource: videoSource},
		CreatedAt: time.Now(),
	}, nil
}
