package sheetfeed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/GTDGit/kicks_api/internal/inventory"
)

// FileSource reads a CSV export saved on disk.
type FileSource struct {
	Path string
}

func (f FileSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, unreachable(err)
	}
	body, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, unreachable(fmt.Errorf("failed to read %s: %w", f.Path, err))
	}
	return &Snapshot{
		Records:   inventory.ParseCSV(string(body)),
		Raw:       body,
		FetchedAt: time.Now(),
		Source:    SourceFile,
	}, nil
}
