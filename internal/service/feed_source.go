package service

import (
	"context"
	"fmt"

	"github.com/GTDGit/kicks_api/internal/config"
	"github.com/GTDGit/kicks_api/pkg/sheetfeed"
)

// NewFeedSource builds the fetcher selected by FEED_SOURCE.
func NewFeedSource(ctx context.Context, feed *config.FeedConfig) (sheetfeed.Fetcher, error) {
	sfCfg := sheetfeed.Config{
		BaseURL:         feed.BaseURL,
		DocumentID:      feed.DocumentID,
		GID:             feed.GID,
		Range:           feed.SheetRange,
		CredentialsFile: feed.CredentialsFile,
	}
	if feed.DocumentID == "" {
		return nil, fmt.Errorf("FEED_DOCUMENT_ID must be set")
	}

	switch feed.Source {
	case config.FeedSourceSheetsAPI:
		return sheetfeed.NewAPIClient(ctx, sfCfg)
	default:
		return sheetfeed.NewCSVClient(sfCfg), nil
	}
}
