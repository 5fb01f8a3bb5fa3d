// Package classify maps inbound URLs to the media type that decides which
// extraction adapter handles them.
package classify

import (
	"strings"

	"github.com/elio-bot/elio/pkg/models"
)

// imageExtensions are the path suffixes treated as directly-linked images.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// attachmentCDN is the chat platform's attachment host; uploads always arrive
// as URLs on this domain, usually without a useful extension.
const attachmentCDN = "cdn.discordapp.com"

// Classify maps a URL to its media type. It is pure and total: malformed
// input falls through to the link type, it never fails. Matching is
// case-insensitive and first match wins.
func Classify(rawURL string) models.MediaType {
	u := strings.ToLower(rawURL)

	if strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be") {
		return models.MediaYouTube
	}

	// Strip query and fragment so extension matching sees the path only.
	path := u
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return models.MediaImage
		}
	}

	if strings.Contains(u, attachmentCDN) {
		return models.MediaImage
	}

	return models.MediaLink
}
