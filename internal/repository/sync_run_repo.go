package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/kicks_api/internal/models"
)

// SyncRunRepository persists the history of inventory sync runs.
type SyncRunRepository struct {
	db *sqlx.DB
}

// NewSyncRunRepository creates a new SyncRunRepository.
func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a run, normally in the running state.
func (r *SyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	const q = `
        INSERT INTO inventory_sync_runs (id, trigger, status, source, fingerprint, skip_reasons, started_at)
        VALUES (:id, :trigger, :status, :source, :fingerprint, :skip_reasons, :started_at)`
	_, err := r.db.NamedExecContext(ctx, q, run)
	return err
}

// Finish stores the final state of a run.
func (r *SyncRunRepository) Finish(ctx context.Context, run *models.SyncRun) error {
	const q = `
        UPDATE inventory_sync_runs SET
            status = :status,
            source = :source,
            fingerprint = :fingerprint,
            total_rows = :total_rows,
            consumed_rows = :consumed_rows,
            skipped_rows = :skipped_rows,
            skip_reasons = :skip_reasons,
            products = :products,
            deactivated = :deactivated,
            archive_key = :archive_key,
            error_message = :error_message,
            finished_at = :finished_at
        WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, q, run)
	return err
}

// LastSuccessful returns the latest run whose feed was applied, or nil when
// no run has succeeded yet.
func (r *SyncRunRepository) LastSuccessful(ctx context.Context) (*models.SyncRun, error) {
	const q = `
        SELECT * FROM inventory_sync_runs
        WHERE status IN ('completed', 'unchanged')
        ORDER BY started_at DESC LIMIT 1`
	var run models.SyncRun
	if err := r.db.GetContext(ctx, &run, q); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// ListRecent returns up to limit runs, newest first.
func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	runs := []models.SyncRun{}
	const q = `SELECT * FROM inventory_sync_runs ORDER BY started_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &runs, q, limit); err != nil {
		return nil, err
	}
	return runs, nil
}
