package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kicks_api/internal/models"
)

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	a := hub.Register("a")
	b := hub.Register("b")
	assert.Equal(t, 2, hub.ClientCount())

	NewHubNotifier(hub).NotifySyncFinished(&models.SyncRun{
		ID:       "run-1",
		Trigger:  models.SyncTriggerManual,
		Status:   models.SyncStatusCompleted,
		Products: 12,
	})

	for _, c := range []*Client{a, b} {
		var ev SyncEvent
		require.NoError(t, json.Unmarshal(<-c.Events, &ev))
		assert.Equal(t, EventSyncCompleted, ev.Event)
		assert.Equal(t, "run-1", ev.RunID)
		assert.Equal(t, 12, ev.Products)
	}

	hub.Unregister("a")
	_, open := <-a.Events
	assert.False(t, open)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	c := hub.Register("slow")
	for i := 0; i < cap(c.Events)+10; i++ {
		hub.Broadcast(&SyncEvent{Event: EventSyncUnchanged})
	}
	assert.Len(t, c.Events, cap(c.Events))
}

func TestRunToEvent(t *testing.T) {
	msg := "FEED_UNREACHABLE: timeout"
	ev := runToEvent(&models.SyncRun{ID: "r", Status: models.SyncStatusFailed, ErrorMessage: &msg})
	assert.Equal(t, EventSyncFailed, ev.Event)
	assert.Equal(t, &msg, ev.ErrorMessage)

	assert.Equal(t, EventSyncUnchanged, runToEvent(&models.SyncRun{Status: models.SyncStatusUnchanged}).Event)
}
