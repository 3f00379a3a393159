package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/utils"
)

var startTime = time.Now()

// Pinger is satisfied by *sql.DB, *sqlx.DB and *cache.RedisClient.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain ping function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// ReportReader returns the last cached sync report.
type ReportReader interface {
	GetLastReport(ctx context.Context) (*models.SyncReport, error)
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db      Pinger
	redis   Pinger
	reports ReportReader
}

// NewHealthHandler creates a new HealthHandler. redis and reports may be nil.
func NewHealthHandler(db, redis Pinger, reports ReportReader) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, reports: reports}
}

// GetHealth responds with service, dependency and last sync status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := ping(ctx, h.db)
	if dbStatus != "connected" {
		status = "degraded"
	}
	redisStatus := ping(ctx, h.redis)

	var lastSync *models.SyncReport
	if h.reports != nil {
		lastSync, _ = h.reports.GetLastReport(ctx)
	}

	utils.Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status":   status,
		"version":  "1.0.0",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": dbStatus,
		"redis":    redisStatus,
		"lastSync": lastSync,
	})
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.PingContext(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}
