package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/GTDGit/kicks_api/internal/config"
	"github.com/GTDGit/kicks_api/internal/inventory"
	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/pkg/sheetfeed"
)

// InventoryService fetches the feed and runs it through the normalizer.
// It holds no per-call state and may be used concurrently.
type InventoryService struct {
	source sheetfeed.Fetcher
	feed   config.FeedConfig
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(source sheetfeed.Fetcher, feed config.FeedConfig) *InventoryService {
	return &InventoryService{source: source, feed: feed}
}

// Ingest fetches one complete snapshot and canonicalizes it. A fetch that
// fails or exceeds FEED_FETCH_TIMEOUT returns a nil result and an error
// wrapping sheetfeed.ErrFeedUnreachable; no partial data is returned.
func (s *InventoryService) Ingest(ctx context.Context) (*models.IngestResult, error) {
	if s.feed.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.feed.FetchTimeout)
		defer cancel()
	}

	snap, err := s.source.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, sheetfeed.ErrFeedUnreachable) && ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", sheetfeed.ErrFeedUnreachable, ctx.Err())
		}
		return nil, err
	}

	records := snap.Records
	if s.feed.HasHeader && len(records) > 0 {
		if s.feed.StrictHeader {
			if err := s.feed.Columns.ValidateHeader(records[0]); err != nil {
				return nil, err
			}
		}
		records = records[1:]
	}

	res := inventory.CanonicalizeRecords(records, s.feed.Columns, inventory.Options{ImageMode: s.feed.ImageMode})

	return &models.IngestResult{
		Products:    res.Products,
		Stats:       res.Stats,
		Fingerprint: Fingerprint(snap.Raw),
		Source:      snap.Source,
		FetchedAt:   snap.FetchedAt,
		Raw:         snap.Raw,
	}, nil
}

// Fingerprint is the hex BLAKE2b-256 digest of a raw feed body.
func Fingerprint(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
