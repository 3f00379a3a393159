package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/utils"
)

// Syncer runs one inventory sync.
type Syncer interface {
	Sync(ctx context.Context, opts models.SyncOptions) (*models.SyncReport, error)
}

// SyncWorker periodically applies the inventory feed to the catalog.
type SyncWorker struct {
	syncService Syncer
	interval    time.Duration
}

// NewSyncWorker constructs a SyncWorker. An interval of zero disables it.
func NewSyncWorker(syncService Syncer, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		syncService: syncService,
		interval:    interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *SyncWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Sync worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Sync worker stopped")
			return
		}
	}
}

func (w *SyncWorker) run(ctx context.Context) {
	report, err := w.syncService.Sync(ctx, models.SyncOptions{
		Exclusive: true,
		Trigger:   models.SyncTriggerSchedule,
	})
	switch {
	case errors.Is(err, utils.ErrSyncInProgress):
		log.Debug().Msg("Skipping scheduled sync, another sync is running")
	case err != nil:
		log.Error().Err(err).Msg("Scheduled inventory sync failed")
	default:
		log.Debug().Str("run_id", report.RunID).Str("status", string(report.Status)).Msg("Scheduled inventory sync done")
	}
}
