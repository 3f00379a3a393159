package sse

import (
	"time"

	"github.com/GTDGit/kicks_api/internal/models"
)

// SyncNotifier is the interface services use to emit sync events.
type SyncNotifier interface {
	NotifySyncFinished(run *models.SyncRun)
}

// HubNotifier implements SyncNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifySyncFinished(run *models.SyncRun) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(runToEvent(run))
}

func runToEvent(run *models.SyncRun) *SyncEvent {
	event := EventSyncCompleted
	switch run.Status {
	case models.SyncStatusUnchanged:
		event = EventSyncUnchanged
	case models.SyncStatusFailed:
		event = EventSyncFailed
	}
	return &SyncEvent{
		Event:        event,
		RunID:        run.ID,
		Trigger:      string(run.Trigger),
		Status:       string(run.Status),
		Products:     run.Products,
		Deactivated:  run.Deactivated,
		SkippedRows:  run.SkippedRows,
		ErrorMessage: run.ErrorMessage,
		Timestamp:    time.Now(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifySyncFinished(run *models.SyncRun) {}
