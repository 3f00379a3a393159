//go:build integration
// +build integration

package repository

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/GTDGit/kicks_api/internal/database"
	"github.com/GTDGit/kicks_api/internal/models"
)

// setupTestDB starts PostgreSQL, applies the migrations and returns a connection.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("kicks"),
		postgres.WithUsername("kicks"),
		postgres.WithPassword("kicks"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.ConnectDSN(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db.DB, "file://../../migrations"))
	return db
}

func price(v int64) *int64 { return &v }

func canonical(sku, brand string, sizes map[string]int, order []string, base int64, sale *int64) models.CanonicalProduct {
	total := 0
	for _, n := range sizes {
		total += n
	}
	return models.CanonicalProduct{
		SKU:         sku,
		Name:        brand + " " + sku,
		Brand:       brand,
		Category:    models.CategorySneakers,
		BasePrice:   base,
		SalePrice:   sale,
		Sizes:       order,
		SizeStock:   sizes,
		Images:      []string{"https://img.example/" + sku + ".jpg"},
		ItemCodes:   []string{},
		TotalStock:  total,
		IsLastPair:  len(order) == 1,
		IsMultiSize: len(order) > 1,
	}
}

func TestProductRepository_ReplaceCatalog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	first := []models.CanonicalProduct{
		canonical("A1", "Nike", map[string]int{"9": 1, "10": 2}, []string{"9", "10"}, 300000, price(200000)),
		canonical("B2", "Adidas", map[string]int{"20": 1}, []string{"20"}, 150000, nil),
	}
	deactivated, err := repo.ReplaceCatalog(ctx, first, time.Now())
	require.NoError(t, err)
	assert.Zero(t, deactivated)

	p, err := repo.GetBySKU(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"9": 1, "10": 2}, p.SizeStock)
	assert.Equal(t, []string{"9", "10"}, []string(p.Sizes))
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, int64(200000), *p.SalePrice)
	assert.True(t, p.IsActive)

	second := []models.CanonicalProduct{
		canonical("A1", "Nike", map[string]int{"10": 1}, []string{"10"}, 300000, nil),
	}
	deactivated, err = repo.ReplaceCatalog(ctx, second, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, deactivated)

	sizes, err := repo.SizesBySKU(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, sizes, 1)
	assert.Equal(t, "10", sizes[0].Size)

	gone, err := repo.GetBySKU(ctx, "B2")
	require.NoError(t, err)
	assert.False(t, gone.IsActive)

	_, err = repo.GetBySKU(ctx, "ZZZ")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProductRepository_ReplaceCatalogAcceptsLongFreeText(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	longSize := strings.Repeat("9.5 US / 27.5 CM ", 6)
	p := canonical(strings.Repeat("SKU-", 40), "Nike", map[string]int{"12000": 1, longSize: 1}, []string{"12000", longSize}, 300000, nil)
	p.Name = strings.Repeat("Nike Air Jordan 1 Retro High OG ", 12)

	_, err := repo.ReplaceCatalog(ctx, []models.CanonicalProduct{p}, time.Now())
	require.NoError(t, err)

	got, err := repo.GetBySKU(ctx, p.SKU)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, map[string]int{"12000": 1, longSize: 1}, got.SizeStock)
}

func TestProductRepository_ListAndBrands(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	kids := canonical("K1", "Nike", map[string]int{"20": 1}, []string{"20"}, 100000, nil)
	kids.IsKids = true
	catalog := []models.CanonicalProduct{
		canonical("A1", "Nike", map[string]int{"9": 1, "10": 1}, []string{"9", "10"}, 300000, price(200000)),
		canonical("B2", "Adidas", map[string]int{"9": 1}, []string{"9"}, 150000, nil),
		kids,
	}
	_, err := repo.ReplaceCatalog(ctx, catalog, time.Now())
	require.NoError(t, err)

	all, total, err := repo.List(ctx, models.ProductFilter{Sort: models.SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "K1", all[0].SKU)

	yes := true
	onSale, total, err := repo.List(ctx, models.ProductFilter{OnSale: &yes})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "A1", onSale[0].SKU)

	sized, total, err := repo.List(ctx, models.ProductFilter{Size: "9", Brand: "nike"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "A1", sized[0].SKU)

	kidsOnly, _, err := repo.List(ctx, models.ProductFilter{Kids: &yes})
	require.NoError(t, err)
	require.Len(t, kidsOnly, 1)
	assert.Equal(t, "K1", kidsOnly[0].SKU)

	searched, _, err := repo.List(ctx, models.ProductFilter{Search: "b2"})
	require.NoError(t, err)
	require.Len(t, searched, 1)

	page, total, err := repo.List(ctx, models.ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)

	brands, err := repo.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adidas", "Nike"}, brands)
}

func TestSyncRunRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRunRepository(db)
	ctx := context.Background()

	last, err := repo.LastSuccessful(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	run := &models.SyncRun{
		ID:          "7f1b6a52-9a7e-4c59-9b1c-2d0f4b1f6e11",
		Trigger:     models.SyncTriggerManual,
		Status:      models.SyncStatusRunning,
		SkipReasons: models.SkipCounts{},
		StartedAt:   time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(ctx, run))

	finished := time.Now()
	run.Status = models.SyncStatusCompleted
	run.Fingerprint = "abc"
	run.TotalRows = 3
	run.SkippedRows = 1
	run.SkipReasons = models.SkipCounts{models.SkipWrongStatus: 1}
	run.Products = 1
	run.FinishedAt = &finished
	require.NoError(t, repo.Finish(ctx, run))

	failed := &models.SyncRun{
		ID:          "0c8f5a3e-1d2b-4e6f-8a9b-0c1d2e3f4a5b",
		Trigger:     models.SyncTriggerSchedule,
		Status:      models.SyncStatusRunning,
		SkipReasons: models.SkipCounts{},
		StartedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(ctx, failed))
	msg := "feed unreachable"
	failed.Status = models.SyncStatusFailed
	failed.ErrorMessage = &msg
	require.NoError(t, repo.Finish(ctx, failed))

	last, err = repo.LastSuccessful(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, run.ID, last.ID)
	assert.Equal(t, "abc", last.Fingerprint)
	assert.Equal(t, 1, last.SkipReasons[models.SkipWrongStatus])

	runs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, failed.ID, runs[0].ID)
	require.NotNil(t, runs[0].ErrorMessage)
}
