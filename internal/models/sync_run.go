package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SyncStatus is the outcome of one inventory sync run.
type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusUnchanged SyncStatus = "unchanged"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncTrigger records what started a sync run.
type SyncTrigger string

const (
	SyncTriggerManual   SyncTrigger = "manual"
	SyncTriggerSchedule SyncTrigger = "schedule"
	SyncTriggerCLI      SyncTrigger = "cli"
)

// SkipCounts is the JSONB column holding per-reason skip tallies.
type SkipCounts map[SkipReason]int

// Value implements driver.Valuer.
func (s SkipCounts) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *SkipCounts) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*s = SkipCounts{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("skip_reasons: unsupported type")
	}
	out := SkipCounts{}
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

// SyncRun is one persisted execution of the inventory sync.
type SyncRun struct {
	ID           string      `db:"id" json:"id"`
	Trigger      SyncTrigger `db:"trigger" json:"trigger"`
	Status       SyncStatus  `db:"status" json:"status"`
	Source       string      `db:"source" json:"source"`
	Fingerprint  string      `db:"fingerprint" json:"fingerprint"`
	TotalRows    int         `db:"total_rows" json:"totalRows"`
	ConsumedRows int         `db:"consumed_rows" json:"consumedRows"`
	SkippedRows  int         `db:"skipped_rows" json:"skippedRows"`
	SkipReasons  SkipCounts  `db:"skip_reasons" json:"skipReasons"`
	Products     int         `db:"products" json:"products"`
	Deactivated  int         `db:"deactivated" json:"deactivated"`
	ArchiveKey   *string     `db:"archive_key" json:"archiveKey,omitempty"`
	ErrorMessage *string     `db:"error_message" json:"errorMessage,omitempty"`
	StartedAt    time.Time   `db:"started_at" json:"startedAt"`
	FinishedAt   *time.Time  `db:"finished_at" json:"finishedAt,omitempty"`
}

// SyncOptions controls one Sync call.
type SyncOptions struct {
	// Force rewrites the catalog even when the feed is unchanged or empty.
	Force bool
	// Exclusive fails with ErrSyncInProgress instead of joining a running sync.
	Exclusive bool
	Trigger   SyncTrigger
}

// SyncReport is returned to callers of SyncService.Sync.
type SyncReport struct {
	RunID       string      `json:"runId"`
	Status      SyncStatus  `json:"status"`
	Products    int         `json:"products"`
	Deactivated int         `json:"deactivated"`
	Stats       IngestStats `json:"stats"`
	Fingerprint string      `json:"fingerprint"`
	ArchiveKey  string      `json:"archiveKey,omitempty"`
	StartedAt   time.Time   `json:"startedAt"`
	Duration    string      `json:"duration"`
}
