package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp" // register the WebP decoder for imaging.Decode
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/kicks_api/internal/models"
)

// DefaultImageCheckConcurrency bounds parallel image fetches.
const DefaultImageCheckConcurrency = 8

// ImageVerifier reports which image URLs are broken.
type ImageVerifier interface {
	Check(ctx context.Context, urls []string) map[string]bool
}

// ReportOptions controls Report.
type ReportOptions struct {
	CheckImages bool
}

// DiagnosticsService summarises feed quality without touching the catalog.
type DiagnosticsService struct {
	inventory Ingester
	images    ImageVerifier
}

// NewDiagnosticsService constructs a DiagnosticsService. images may be nil,
// in which case image checks are skipped.
func NewDiagnosticsService(inventory Ingester, images ImageVerifier) *DiagnosticsService {
	return &DiagnosticsService{inventory: inventory, images: images}
}

// Preview ingests the feed without persisting anything.
func (s *DiagnosticsService) Preview(ctx context.Context) (*models.IngestResult, error) {
	return s.inventory.Ingest(ctx)
}

// Report ingests the feed and summarises it.
func (s *DiagnosticsService) Report(ctx context.Context, opts ReportOptions) (*models.DiagnosticsReport, error) {
	result, err := s.inventory.Ingest(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildReport(result)

	if opts.CheckImages && s.images != nil {
		urls := make([]string, 0, len(result.Products))
		for _, p := range result.Products {
			if len(p.Images) > 0 {
				urls = append(urls, p.Images[0])
			}
		}
		ApplyImageCheck(report, result.Products, s.images.Check(ctx, urls))
	}
	return report, nil
}

// BuildReport computes the diagnostics of one ingestion.
func BuildReport(result *models.IngestResult) *models.DiagnosticsReport {
	stats := result.Stats
	report := &models.DiagnosticsReport{
		TotalRows:        stats.TotalRows,
		ConsumedRows:     stats.ConsumedRows,
		SkippedRows:      stats.SkippedRows,
		SkipReasons:      stats.SkipReasons,
		StatusCounts:     stats.StatusCounts,
		UniqueSKUs:       stats.UniqueSKUs,
		Products:         len(result.Products),
		MissingImageSKUs: []string{},
	}

	for _, p := range result.Products {
		if len(p.Images) == 0 {
			report.ProductsWithoutImage++
			report.MissingImageSKUs = append(report.MissingImageSKUs, p.SKU)
		}
		if p.IsLastPair {
			report.LastPair++
		}
		if p.IsMultiSize {
			report.MultiSize++
		}
		if p.IsKids {
			report.Kids++
		}
		if p.SalePrice != nil {
			report.OnSale++
		}
		report.TotalUnits += p.TotalStock
	}
	return report
}

// ApplyImageCheck records broken first images in report.
func ApplyImageCheck(report *models.DiagnosticsReport, products []models.CanonicalProduct, broken map[string]bool) {
	report.ImagesChecked = true
	report.BrokenImages = 0
	report.BrokenImageSKUs = []string{}
	for _, p := range products {
		if len(p.Images) > 0 && broken[p.Images[0]] {
			report.BrokenImages++
			report.BrokenImageSKUs = append(report.BrokenImageSKUs, p.SKU)
		}
	}
	sort.Strings(report.BrokenImageSKUs)
}

// ImageChecker downloads images and verifies they decode.
type ImageChecker struct {
	httpClient *http.Client
	limit      int
}

// NewImageChecker creates an ImageChecker with a per-image timeout.
func NewImageChecker(timeout time.Duration) *ImageChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ImageChecker{
		httpClient: &http.Client{Timeout: timeout},
		limit:      DefaultImageCheckConcurrency,
	}
}

// Check fetches every distinct URL and returns the set of broken ones: URLs
// that fail to download, answer non-2xx, or do not decode as an image.
func (c *ImageChecker) Check(ctx context.Context, urls []string) map[string]bool {
	var (
		mu     sync.Mutex
		broken = make(map[string]bool)
		seen   = make(map[string]struct{}, len(urls))
	)

	var g errgroup.Group
	g.SetLimit(c.limit)
	for _, u := range urls {
		if _, dup := seen[u]; dup || u == "" {
			continue
		}
		seen[u] = struct{}{}

		g.Go(func() error {
			if err := c.verify(ctx, u); err != nil {
				log.Debug().Err(err).Str("url", u).Msg("broken product image")
				mu.Lock()
				broken[u] = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return broken
}

func (c *ImageChecker) verify(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return fmt.Errorf("empty image")
	}
	return nil
}
