package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elio-bot/elio/pkg/models"
)

// imageSource attributes image records to the vision capability.
const imageSource = "gemini-vision"

// maxImageBytes caps downloaded image size.
const maxImageBytes = 20 << 20

// ImageDescriber turns raw image bytes into a description plus OCR text.
type ImageDescriber interface {
	DescribeImage(ctx context.Context, imageBytes []byte) (string, error)
}

// ImageAdapter captures images: it downloads the raw bytes and asks the
// vision capability for a combined description and OCR transcript. The
// description lands in the record's content; images never get a summary or a
// title.
type ImageAdapter struct {
	describer  ImageDescriber
	httpClient *http.Client
}

// NewImageAdapter creates the adapter for directly-linked images.
func NewImageAdapter(describer ImageDescriber, timeout time.Duration) *ImageAdapter {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ImageAdapter{
		describer:  describer,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Extract downloads the image at url and describes it.
func (a *ImageAdapter) Extract(ctx context.Context, url string) (*models.ContentRecord, error) {
	imageBytes, err := a.download(ctx, url)
	if err != nil {
		return nil, &Error{Input: url, Err: err}
	}

	description, err := a.describer.DescribeImage(ctx, imageBytes)
	if err != nil {
		return nil, &Error{Input: url, Err: err}
	}

	return &models.ContentRecord{
		URL:       url,
		Content:   description,
		MediaType: models.MediaImage,
		Metadata:  map[string]string{models.MetadataSource: imageSource},
		CreatedAt: time.Now(),
	}, nil
}

func (a *ImageAdapter) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	imageBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return imageBytes, nil
}
