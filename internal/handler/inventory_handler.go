package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kicks_api/internal/inventory"
	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/service"
	"github.com/GTDGit/kicks_api/internal/utils"
	"github.com/GTDGit/kicks_api/pkg/sheetfeed"
)

// InventoryHandler serves the admin inventory endpoints.
type InventoryHandler struct {
	syncService        *service.SyncService
	diagnosticsService *service.DiagnosticsService
}

// NewInventoryHandler constructs an InventoryHandler.
func NewInventoryHandler(syncService *service.SyncService, diagnosticsService *service.DiagnosticsService) *InventoryHandler {
	return &InventoryHandler{syncService: syncService, diagnosticsService: diagnosticsService}
}

// Sync handles POST /v1/admin/inventory/sync[?force=true].
func (h *InventoryHandler) Sync(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("force"))

	report, err := h.syncService.Sync(c.Request.Context(), models.SyncOptions{
		Force:   force,
		Trigger: models.SyncTriggerManual,
	})
	if err != nil {
		log.Warn().Err(err).Interface("user_id", c.Value("user_id")).Msg("manual inventory sync failed")
		writeInventoryError(c, err)
		return
	}

	utils.Success(c, http.StatusOK, "Inventory synced", report)
}

// Preview handles GET /v1/admin/inventory/preview[?sku=X]. Nothing is persisted.
func (h *InventoryHandler) Preview(c *gin.Context) {
	result, err := h.diagnosticsService.Preview(c.Request.Context())
	if err != nil {
		writeInventoryError(c, err)
		return
	}

	products := result.Products
	if sku := strings.TrimSpace(c.Query("sku")); sku != "" {
		products = make([]models.CanonicalProduct, 0, 1)
		for _, p := range result.Products {
			if strings.EqualFold(p.SKU, sku) {
				products = append(products, p)
			}
		}
	}

	utils.Success(c, http.StatusOK, "Inventory preview", gin.H{
		"products":    products,
		"stats":       result.Stats,
		"fingerprint": result.Fingerprint,
		"source":      result.Source,
		"fetchedAt":   result.FetchedAt,
	})
}

// Report handles GET /v1/admin/inventory/report[?checkImages=true].
func (h *InventoryHandler) Report(c *gin.Context) {
	checkImages, _ := strconv.ParseBool(c.Query("checkImages"))

	report, err := h.diagnosticsService.Report(c.Request.Context(), service.ReportOptions{CheckImages: checkImages})
	if err != nil {
		writeInventoryError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Inventory report", report)
}

// Snapshot handles GET /v1/admin/inventory/snapshot.
func (h *InventoryHandler) Snapshot(c *gin.Context) {
	snap, err := h.syncService.Snapshot(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read catalog snapshot")
		return
	}
	if snap == nil {
		utils.Error(c, http.StatusNotFound, "SNAPSHOT_NOT_FOUND", "No catalog snapshot cached yet")
		return
	}
	utils.Success(c, http.StatusOK, "Catalog snapshot", snap)
}

// Runs handles GET /v1/admin/inventory/runs[?limit=N].
func (h *InventoryHandler) Runs(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, 100)
		}
	}

	runs, err := h.syncService.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list sync runs")
		return
	}
	if runs == nil {
		runs = []models.SyncRun{}
	}
	utils.Success(c, http.StatusOK, "Sync runs retrieved successfully", gin.H{
		"runs":       runs,
		"inProgress": h.syncService.InProgress(),
	})
}

func writeInventoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sheetfeed.ErrFeedUnreachable):
		utils.Error(c, http.StatusBadGateway, "FEED_UNREACHABLE", "Inventory feed is unreachable, please retry")
	case errors.Is(err, utils.ErrSyncInProgress):
		utils.Error(c, http.StatusConflict, "SYNC_IN_PROGRESS", "A sync is already running")
	case errors.Is(err, utils.ErrEmptyFeed):
		utils.Error(c, http.StatusUnprocessableEntity, "EMPTY_FEED", "Feed has no rows; use force=true to clear the catalog")
	case errors.Is(err, inventory.ErrHeaderMismatch):
		utils.Error(c, http.StatusUnprocessableEntity, "HEADER_MISMATCH", err.Error())
	default:
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Inventory sync failed")
	}
}
