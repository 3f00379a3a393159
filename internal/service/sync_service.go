package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/GTDGit/kicks_api/internal/cache"
	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/sse"
	"github.com/GTDGit/kicks_api/internal/utils"
)

// Ingester produces canonical products from the feed.
type Ingester interface {
	Ingest(ctx context.Context) (*models.IngestResult, error)
}

// CatalogWriter persists a canonical catalog.
type CatalogWriter interface {
	ReplaceCatalog(ctx context.Context, products []models.CanonicalProduct, syncedAt time.Time) (int, error)
}

// SyncRunStore records sync history.
type SyncRunStore interface {
	Create(ctx context.Context, run *models.SyncRun) error
	Finish(ctx context.Context, run *models.SyncRun) error
	LastSuccessful(ctx context.Context) (*models.SyncRun, error)
	ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error)
}

// SnapshotCache keeps the latest snapshot and report for admin views.
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, snap *cache.CatalogSnapshot) error
	GetSnapshot(ctx context.Context) (*cache.CatalogSnapshot, error)
	SetLastReport(ctx context.Context, report *models.SyncReport) error
}

// Archiver stores raw feed bodies.
type Archiver interface {
	Archive(ctx context.Context, runID string, raw []byte) (string, error)
}

const syncKey = "inventory-sync"

// SyncService applies the feed to the persisted catalog. Concurrent calls
// share one pass: only one ingestion runs at a time.
type SyncService struct {
	inventory Ingester
	catalog   CatalogWriter
	runs      SyncRunStore
	cache     SnapshotCache
	archive   Archiver
	notifier  sse.SyncNotifier

	group   singleflight.Group
	running atomic.Bool
	now     func() time.Time
}

// NewSyncService constructs a SyncService. cache and archive may be nil.
func NewSyncService(
	inventory Ingester,
	catalog CatalogWriter,
	runs SyncRunStore,
	snapshots SnapshotCache,
	archive Archiver,
	notifier sse.SyncNotifier,
) *SyncService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &SyncService{
		inventory: inventory,
		catalog:   catalog,
		runs:      runs,
		cache:     snapshots,
		archive:   archive,
		notifier:  notifier,
		now:       time.Now,
	}
}

// InProgress reports whether a sync is currently running.
func (s *SyncService) InProgress() bool {
	return s.running.Load()
}

// Sync runs one sync or joins the one already running. The pass continues
// even if the caller's context is cancelled, since other callers may share it.
func (s *SyncService) Sync(ctx context.Context, opts models.SyncOptions) (*models.SyncReport, error) {
	if opts.Trigger == "" {
		opts.Trigger = models.SyncTriggerManual
	}
	if opts.Exclusive && s.running.Load() {
		return nil, utils.ErrSyncInProgress
	}

	ch := s.group.DoChan(syncKey, func() (any, error) {
		s.running.Store(true)
		defer s.running.Store(false)
		return s.run(context.WithoutCancel(ctx), opts)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.SyncReport), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *SyncService) run(ctx context.Context, opts models.SyncOptions) (*models.SyncReport, error) {
	started := s.now()
	run := &models.SyncRun{
		ID:          uuid.NewString(),
		Trigger:     opts.Trigger,
		Status:      models.SyncStatusRunning,
		SkipReasons: models.SkipCounts{},
		StartedAt:   started,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}

	result, err := s.inventory.Ingest(ctx)
	if err != nil {
		return nil, s.fail(ctx, run, err)
	}

	run.Source = result.Source
	run.Fingerprint = result.Fingerprint
	run.TotalRows = result.Stats.TotalRows
	run.ConsumedRows = result.Stats.ConsumedRows
	run.SkippedRows = result.Stats.SkippedRows
	run.SkipReasons = models.SkipCounts(result.Stats.SkipReasons)
	run.Products = len(result.Products)

	if result.Stats.TotalRows == 0 && !opts.Force {
		return nil, s.fail(ctx, run, utils.ErrEmptyFeed)
	}

	if s.unchanged(ctx, result.Fingerprint) && !opts.Force {
		run.Status = models.SyncStatusUnchanged
	} else {
		deactivated, err := s.catalog.ReplaceCatalog(ctx, result.Products, started)
		if err != nil {
			return nil, s.fail(ctx, run, fmt.Errorf("failed to persist catalog: %w", err))
		}
		run.Status = models.SyncStatusCompleted
		run.Deactivated = deactivated

		if s.archive != nil {
			key, err := s.archive.Archive(ctx, run.ID, result.Raw)
			if err != nil {
				log.Warn().Err(err).Str("run_id", run.ID).Msg("feed archive failed")
			} else if key != "" {
				run.ArchiveKey = &key
			}
		}
	}

	if s.cache != nil {
		err := s.cache.SetSnapshot(ctx, &cache.CatalogSnapshot{
			RunID:       run.ID,
			Fingerprint: result.Fingerprint,
			Products:    result.Products,
			Stats:       result.Stats,
		})
		if err != nil {
			log.Warn().Err(err).Str("run_id", run.ID).Msg("catalog snapshot cache failed")
		}
	}

	finished := s.now()
	run.FinishedAt = &finished
	if err := s.runs.Finish(ctx, run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to record sync completion")
	}

	report := &models.SyncReport{
		RunID:       run.ID,
		Status:      run.Status,
		Products:    run.Products,
		Deactivated: run.Deactivated,
		Stats:       result.Stats,
		Fingerprint: run.Fingerprint,
		StartedAt:   started,
		Duration:    finished.Sub(started).String(),
	}
	if run.ArchiveKey != nil {
		report.ArchiveKey = *run.ArchiveKey
	}
	if s.cache != nil {
		if err := s.cache.SetLastReport(ctx, report); err != nil {
			log.Warn().Err(err).Str("run_id", run.ID).Msg("sync report cache failed")
		}
	}

	s.notifier.NotifySyncFinished(run)

	log.Info().
		Str("run_id", run.ID).
		Str("trigger", string(run.Trigger)).
		Str("status", string(run.Status)).
		Int("total_rows", run.TotalRows).
		Int("skipped_rows", run.SkippedRows).
		Int("products", run.Products).
		Int("deactivated", run.Deactivated).
		Str("duration", report.Duration).
		Msg("inventory sync finished")

	return report, nil
}

// unchanged reports whether fingerprint matches the last applied feed.
func (s *SyncService) unchanged(ctx context.Context, fingerprint string) bool {
	last, err := s.runs.LastSuccessful(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load last sync run, doing full sync")
		return false
	}
	return last != nil && last.Fingerprint == fingerprint
}

func (s *SyncService) fail(ctx context.Context, run *models.SyncRun, cause error) error {
	msg := cause.Error()
	finished := s.now()
	run.Status = models.SyncStatusFailed
	run.ErrorMessage = &msg
	run.FinishedAt = &finished
	if err := s.runs.Finish(ctx, run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to record sync failure")
	}
	s.notifier.NotifySyncFinished(run)

	log.Error().Err(cause).
		Str("run_id", run.ID).
		Str("trigger", string(run.Trigger)).
		Msg("inventory sync failed")
	return cause
}

// RecentRuns returns the latest sync runs, newest first.
func (s *SyncService) RecentRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	return s.runs.ListRecent(ctx, limit)
}

// Snapshot returns the cached canonical list of the latest sync, or nil.
func (s *SyncService) Snapshot(ctx context.Context) (*cache.CatalogSnapshot, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetSnapshot(ctx)
}
