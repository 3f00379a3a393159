package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kicks_api/internal/models"
)

type memStore struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func TestCatalogCache_MissReturnsNil(t *testing.T) {
	c := NewCatalogCache(newMemStore(), time.Hour)

	snap, err := c.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)

	report, err := c.GetLastReport(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestCatalogCache_SnapshotRoundTrip(t *testing.T) {
	store := newMemStore()
	c := NewCatalogCache(store, time.Hour)
	sale := int64(200000)

	err := c.SetSnapshot(context.Background(), &CatalogSnapshot{
		RunID:       "run-1",
		Fingerprint: "fp",
		Products: []models.CanonicalProduct{{
			SKU:       "A1",
			BasePrice: 300000,
			SalePrice: &sale,
			Sizes:     []string{"9", "10"},
			SizeStock: map[string]int{"9": 1, "10": 1},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, store.ttls[keyCatalogSnapshot])

	snap, err := c.GetSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "run-1", snap.RunID)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, []string{"9", "10"}, snap.Products[0].Sizes)
	assert.Equal(t, int64(200000), *snap.Products[0].SalePrice)
	assert.False(t, snap.CachedAt.IsZero())
}

func TestCatalogCache_StoreErrorsPropagate(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	c := NewCatalogCache(store, 0)

	_, err := c.GetLastReport(context.Background())
	assert.EqualError(t, err, "connection refused")
	assert.Error(t, c.SetLastReport(context.Background(), &models.SyncReport{RunID: "x"}))
}

func TestCatalogCache_CorruptEntry(t *testing.T) {
	store := newMemStore()
	store.data[keyLastSyncReport] = "{not json"
	c := NewCatalogCache(store, 0)

	_, err := c.GetLastReport(context.Background())
	assert.Error(t, err)
}

func TestNamespaced(t *testing.T) {
	assert.Equal(t, "kicks:inventory:catalog:snapshot", namespaced(keyCatalogSnapshot))
	assert.Equal(t, "kicks:inventory:sync:last_report", namespaced(keyLastSyncReport))
}
