package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kicks_api/internal/config"
	"github.com/GTDGit/kicks_api/internal/inventory"
	"github.com/GTDGit/kicks_api/pkg/sheetfeed"
)

const feedCSV = `ITEM CODE,DETAILS,SKU,SIZE,UNIT COST,SELLING PRICE,STATUS,SUPPLIER,CONDITION,DATE ADDED,NOTES,,,SRP,,,,,PRODUCTS URL
IC1,Nike Dunk Low Panda,A1,9,1500,2000,AVAILABLE,Manila,NEW,2025-01-02,,,,3000,,,,,http://x/img.jpg
IC2,Nike Dunk Low Panda,A1,10,1500,2000,AVAILABLE,Manila,NEW,2025-01-02,,,,3000,,,,,
IC3,Adidas Samba,B2,20CM,300,500,SOLD,Manila,NEW,2025-01-02,,,,,,,,,http://y/img.jpg
`

func feedConfig() config.FeedConfig {
	return config.FeedConfig{
		FetchTimeout: time.Second,
		HasHeader:    true,
		ImageMode:    inventory.ImageThumbnail,
		Columns:      inventory.DefaultColumnMap(),
	}
}

func snapshotOf(body string) *sheetfeed.Snapshot {
	return &sheetfeed.Snapshot{
		Records:   inventory.ParseCSV(body),
		Raw:       []byte(body),
		FetchedAt: time.Now(),
		Source:    sheetfeed.SourceCSVExport,
	}
}

func TestInventoryService_Ingest(t *testing.T) {
	svc := NewInventoryService(&fakeSource{snap: snapshotOf(feedCSV)}, feedConfig())

	res, err := svc.Ingest(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	p := res.Products[0]
	assert.Equal(t, "A1", p.SKU)
	assert.Equal(t, []string{"9", "10"}, p.Sizes)
	assert.Equal(t, int64(300000), p.BasePrice)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, int64(200000), *p.SalePrice)
	assert.Equal(t, 3, res.Stats.TotalRows)
	assert.Equal(t, 1, res.Stats.SkippedRows)
	assert.Equal(t, Fingerprint([]byte(feedCSV)), res.Fingerprint)
	assert.Len(t, res.Fingerprint, 64)
	assert.Equal(t, sheetfeed.SourceCSVExport, res.Source)
}

func TestInventoryService_StrictHeader(t *testing.T) {
	cfg := feedConfig()
	cfg.StrictHeader = true
	require.NoError(t, mustIngest(t, cfg, feedCSV))

	shifted := "#," + feedCSV
	err := mustIngest(t, cfg, shifted)
	assert.ErrorIs(t, err, inventory.ErrHeaderMismatch)
}

func mustIngest(t *testing.T, cfg config.FeedConfig, body string) error {
	t.Helper()
	_, err := NewInventoryService(&fakeSource{snap: snapshotOf(body)}, cfg).Ingest(context.Background())
	return err
}

func TestInventoryService_FetchFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	svc := NewInventoryService(&fakeSource{err: errors.Join(sheetfeed.ErrFeedUnreachable, cause)}, feedConfig())

	res, err := svc.Ingest(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, sheetfeed.ErrFeedUnreachable)
}

func TestInventoryService_TimeoutIsUnreachable(t *testing.T) {
	cfg := feedConfig()
	cfg.FetchTimeout = 20 * time.Millisecond
	svc := NewInventoryService(&fakeSource{block: true}, cfg)

	start := time.Now()
	res, err := svc.Ingest(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, sheetfeed.ErrFeedUnreachable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestInventoryService_NoHeader(t *testing.T) {
	cfg := feedConfig()
	cfg.HasHeader = false
	body := "IC1,Nike Dunk,A1,9,1,2000,AVAILABLE\n"

	res, err := NewInventoryService(&fakeSource{snap: snapshotOf(body)}, cfg).Ingest(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
}

func TestFingerprint_Stable(t *testing.T) {
	assert.Equal(t, Fingerprint([]byte("a,b\n")), Fingerprint([]byte("a,b\n")))
	assert.NotEqual(t, Fingerprint([]byte("a,b\n")), Fingerprint([]byte("a,c\n")))
}

func TestInventoryService_MissingExportIsUnreachable(t *testing.T) {
	svc := NewInventoryService(sheetfeed.FileSource{Path: t.TempDir() + "/missing.csv"}, feedConfig())

	res, err := svc.Ingest(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, sheetfeed.ErrFeedUnreachable)
}
