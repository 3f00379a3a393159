package inventory

import (
	"fmt"
	"regexp"
	"strings"
)

// ImageMode selects the direct-link form a Google Drive URL is rewritten to.
type ImageMode string

const (
	// ImageThumbnail renders a 1000px wide thumbnail; used by listing cards.
	ImageThumbnail ImageMode = "thumbnail"
	// ImageView serves the original file.
	ImageView ImageMode = "view"
)

var (
	driveFilePath   = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`)
	driveIDParam    = regexp.MustCompile(`[?&]id=([A-Za-z0-9_-]+)`)
	driveFolderPath = regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`)
)

// ParseImageMode maps a configuration value to an ImageMode, defaulting to
// ImageThumbnail.
func ParseImageMode(v string) ImageMode {
	if strings.EqualFold(strings.TrimSpace(v), string(ImageView)) {
		return ImageView
	}
	return ImageThumbnail
}

// DriveFileID extracts the Google Drive file or folder id from a share link.
// It reports false for URLs that are not Google hosted or carry no id.
func DriveFileID(rawURL string) (string, bool) {
	u := strings.TrimSpace(rawURL)
	lower := strings.ToLower(u)
	if !strings.Contains(lower, "drive.google.com") && !strings.Contains(lower, "docs.google.com") {
		return "", false
	}
	for _, re := range []*regexp.Regexp{driveFilePath, driveIDParam, driveFolderPath} {
		if m := re.FindStringSubmatch(u); len(m) == 2 {
			return m[1], true
		}
	}
	return "", false
}

// ResolveImageURL rewrites Google Drive share links to a directly embeddable
// URL. Any other URL is returned trimmed and otherwise unchanged.
func ResolveImageURL(rawURL string, mode ImageMode) string {
	u := strings.TrimSpace(rawURL)
	id, ok := DriveFileID(u)
	if !ok {
		return u
	}
	if mode == ImageView {
		return fmt.Sprintf("https://drive.google.com/uc?export=view&id=%s", id)
	}
	return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w1000", id)
}
