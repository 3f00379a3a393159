package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kicks_api/internal/sse"
	"github.com/GTDGit/kicks_api/internal/utils"
)

// Stream event names. Sync results go out as "sync" with the sse.SyncEvent
// JSON as data; "heartbeat" keeps proxies from closing idle streams.
const (
	streamEventReady     = "ready"
	streamEventSync      = "sync"
	streamEventHeartbeat = "heartbeat"
)

// SSEHandler pushes sync run results to the admin dashboard.
type SSEHandler struct {
	hub       *sse.Hub
	heartbeat time.Duration
}

func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub, heartbeat: 30 * time.Second}
}

// Stream handles GET /v1/admin/sse?token=<jwt>
func (h *SSEHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Missing token query parameter")
		return
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	subscriberID := fmt.Sprintf("sync-watch-%d-%d", claims.UserID, time.Now().UnixNano())

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sub := h.hub.Register(subscriberID)
	defer h.hub.Unregister(subscriberID)

	c.SSEvent(streamEventReady, gin.H{
		"subscriberId":     subscriberID,
		"watchers":         h.hub.ClientCount(),
		"heartbeatSeconds": int(h.heartbeat / time.Second),
	})
	c.Writer.Flush()

	opened := time.Now()
	delivered := 0
	defer func() {
		log.Info().
			Str("subscriber_id", subscriberID).
			Int("user_id", claims.UserID).
			Int("sync_events", delivered).
			Dur("open_for", time.Since(opened)).
			Msg("Sync event stream closed")
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-sub.Events:
			if !ok {
				return false
			}
			delivered++
			c.SSEvent(streamEventSync, string(data))
			return true
		case <-time.After(h.heartbeat):
			c.SSEvent(streamEventHeartbeat, time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
