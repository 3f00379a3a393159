package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GTDGit/kicks_api/internal/models"
)

const (
	keyCatalogSnapshot = "inventory:catalog:snapshot"
	keyLastSyncReport  = "inventory:sync:last_report"
)

// Store is the subset of RedisClient the catalog cache needs.
type Store interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// CatalogSnapshot is the last canonical product list produced by a sync.
type CatalogSnapshot struct {
	RunID       string                    `json:"runId"`
	Fingerprint string                    `json:"fingerprint"`
	Products    []models.CanonicalProduct `json:"products"`
	Stats       models.IngestStats        `json:"stats"`
	CachedAt    time.Time                 `json:"cachedAt"`
}

// CatalogCache keeps the latest canonical snapshot and sync report in Redis
// so admin views do not need to refetch the feed.
type CatalogCache struct {
	store Store
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache. A zero ttl keeps entries forever.
func NewCatalogCache(store Store, ttl time.Duration) *CatalogCache {
	return &CatalogCache{store: store, ttl: ttl}
}

// SetSnapshot stores the canonical list of a run.
func (c *CatalogCache) SetSnapshot(ctx context.Context, snap *CatalogSnapshot) error {
	snap.CachedAt = time.Now()
	return c.set(ctx, keyCatalogSnapshot, snap)
}

// GetSnapshot returns the cached snapshot, or nil when there is none.
func (c *CatalogCache) GetSnapshot(ctx context.Context) (*CatalogSnapshot, error) {
	var snap CatalogSnapshot
	ok, err := c.get(ctx, keyCatalogSnapshot, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// SetLastReport stores the report of the latest sync.
func (c *CatalogCache) SetLastReport(ctx context.Context, report *models.SyncReport) error {
	return c.set(ctx, keyLastSyncReport, report)
}

// GetLastReport returns the cached report, or nil when there is none.
func (c *CatalogCache) GetLastReport(ctx context.Context) (*models.SyncReport, error) {
	var report models.SyncReport
	ok, err := c.get(ctx, keyLastSyncReport, &report)
	if err != nil || !ok {
		return nil, err
	}
	return &report, nil
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return c.store.Set(ctx, key, string(data), c.ttl)
}

func (c *CatalogCache) get(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}
