package sheetfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kicks_api/internal/inventory"
)

// CSVClient downloads the sheet through its public CSV export link.
type CSVClient struct {
	httpClient *http.Client
	url        string
	debug      bool
}

// NewCSVClient constructs a CSV export client. The request deadline comes
// from the caller's context.
func NewCSVClient(cfg Config) *CSVClient {
	return &CSVClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        ExportURL(cfg.BaseURL, cfg.DocumentID, cfg.GID),
		debug:      os.Getenv("ENV") == "development",
	}
}

// URL returns the export link the client fetches.
func (c *CSVClient) URL() string {
	return c.url
}

// Fetch downloads and parses the whole sheet.
func (c *CSVClient) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, unreachable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unreachable(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unreachable(fmt.Errorf("failed to read response: %w", err))
	}

	if c.debug {
		log.Debug().
			Str("url", c.url).
			Int("status_code", resp.StatusCode).
			Int("bytes", len(body)).
			Dur("elapsed", time.Since(start)).
			Msg("[SHEETFEED] CSV export fetched")
	}

	return &Snapshot{
		Records:   inventory.ParseCSV(string(body)),
		Raw:       body,
		FetchedAt: time.Now(),
		Source:    SourceCSVExport,
	}, nil
}
