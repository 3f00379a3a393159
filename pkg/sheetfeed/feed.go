// Package sheetfeed fetches the inventory spreadsheet, either through the
// public CSV export link or through the Google Sheets API.
package sheetfeed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Google Docs host serving CSV exports.
	DefaultBaseURL = "https://docs.google.com"

	SourceCSVExport = "csv_export"
	SourceSheetsAPI = "sheets_api"
	SourceFile      = "file"
)

// ErrFeedUnreachable is returned when the feed cannot be fetched in full.
// Callers must treat it as "no data", never as an empty inventory.
var ErrFeedUnreachable = errors.New("FEED_UNREACHABLE")

// Snapshot is one complete fetch of the feed.
type Snapshot struct {
	Records   [][]string
	Raw       []byte
	FetchedAt time.Time
	Source    string
}

// Fetcher is implemented by every feed source.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Config describes where the feed lives.
type Config struct {
	BaseURL         string
	DocumentID      string
	GID             string
	Range           string
	CredentialsFile string
}

// ExportURL builds the CSV export link of one sheet tab.
func ExportURL(base, documentID, gid string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	if gid == "" {
		gid = "0"
	}
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s",
		strings.TrimRight(base, "/"), documentID, gid)
}

func unreachable(err error) error {
	return fmt.Errorf("%w: %w", ErrFeedUnreachable, err)
}
