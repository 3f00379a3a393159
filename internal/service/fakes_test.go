package service

import (
	"context"
	"sync"
	"time"

	"github.com/GTDGit/kicks_api/internal/cache"
	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/pkg/sheetfeed"
)

type fakeSource struct {
	snap  *sheetfeed.Snapshot
	err   error
	block bool
}

func (f *fakeSource) Fetch(ctx context.Context) (*sheetfeed.Snapshot, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.snap, f.err
}

type fakeIngester struct {
	mu      sync.Mutex
	result  *models.IngestResult
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (f *fakeIngester) Ingest(ctx context.Context) (*models.IngestResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakeIngester) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCatalog struct {
	calls       int
	products    []models.CanonicalProduct
	deactivated int
	err         error
}

func (f *fakeCatalog) ReplaceCatalog(_ context.Context, products []models.CanonicalProduct, _ time.Time) (int, error) {
	f.calls++
	f.products = products
	return f.deactivated, f.err
}

type fakeRuns struct {
	mu       sync.Mutex
	created  []models.SyncRun
	finished []models.SyncRun
	last     *models.SyncRun
	lastErr  error
}

func (f *fakeRuns) Create(_ context.Context, run *models.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *run)
	return nil
}

func (f *fakeRuns) Finish(_ context.Context, run *models.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, *run)
	return nil
}

func (f *fakeRuns) LastSuccessful(context.Context) (*models.SyncRun, error) {
	return f.last, f.lastErr
}

func (f *fakeRuns) ListRecent(_ context.Context, limit int) ([]models.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.SyncRun(nil), f.finished...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCache struct {
	snap   *cache.CatalogSnapshot
	report *models.SyncReport
}

func (f *fakeCache) SetSnapshot(_ context.Context, snap *cache.CatalogSnapshot) error {
	f.snap = snap
	return nil
}

func (f *fakeCache) GetSnapshot(context.Context) (*cache.CatalogSnapshot, error) {
	return f.snap, nil
}

func (f *fakeCache) SetLastReport(_ context.Context, report *models.SyncReport) error {
	f.report = report
	return nil
}

type fakeArchiver struct {
	key  string
	err  error
	runs []string
}

func (f *fakeArchiver) Archive(_ context.Context, runID string, _ []byte) (string, error) {
	f.runs = append(f.runs, runID)
	return f.key, f.err
}

type recordingNotifier struct {
	mu   sync.Mutex
	runs []models.SyncRun
}

func (n *recordingNotifier) NotifySyncFinished(run *models.SyncRun) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.runs = append(n.runs, *run)
}
