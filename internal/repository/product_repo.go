package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/kicks_api/internal/inventory"
	"github.com/GTDGit/kicks_api/internal/models"
)

// ProductRepository handles data access for products and their sizes.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ReplaceCatalog makes the persisted catalog match products in a single
// transaction: every product is upserted and reactivated, its size rows are
// replaced, and active SKUs absent from products are deactivated.
// It returns the number of deactivated SKUs.
func (r *ProductRepository) ReplaceCatalog(ctx context.Context, products []models.CanonicalProduct, syncedAt time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin catalog tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
        INSERT INTO products (sku, name, brand, category, base_price, sale_price, discount_percent,
            sizes, images, total_stock, is_last_pair, is_multi_size, is_kids, is_active, synced_at)
        VALUES (:sku, :name, :brand, :category, :base_price, :sale_price, :discount_percent,
            :sizes, :images, :total_stock, :is_last_pair, :is_multi_size, :is_kids, TRUE, :synced_at)
        ON CONFLICT (sku) DO UPDATE SET
            name = EXCLUDED.name,
            brand = EXCLUDED.brand,
            category = EXCLUDED.category,
            base_price = EXCLUDED.base_price,
            sale_price = EXCLUDED.sale_price,
            discount_percent = EXCLUDED.discount_percent,
            sizes = EXCLUDED.sizes,
            images = EXCLUDED.images,
            total_stock = EXCLUDED.total_stock,
            is_last_pair = EXCLUDED.is_last_pair,
            is_multi_size = EXCLUDED.is_multi_size,
            is_kids = EXCLUDED.is_kids,
            is_active = TRUE,
            synced_at = EXCLUDED.synced_at,
            updated_at = NOW()`

	upsertStmt, err := tx.PrepareNamedContext(ctx, upsert)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer upsertStmt.Close()

	sizeStmt, err := tx.PreparexContext(ctx,
		`INSERT INTO product_sizes (sku, size, stock, sort_key) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return 0, fmt.Errorf("prepare size insert: %w", err)
	}
	defer sizeStmt.Close()

	skus := make([]string, 0, len(products))
	for _, cp := range products {
		p := models.ProductFromCanonical(cp, syncedAt)
		if _, err := upsertStmt.ExecContext(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", cp.SKU, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_sizes WHERE sku = $1`, cp.SKU); err != nil {
			return 0, fmt.Errorf("clear sizes of %s: %w", cp.SKU, err)
		}
		for _, size := range cp.Sizes {
			if _, err := sizeStmt.ExecContext(ctx, cp.SKU, size, cp.SizeStock[size], inventory.SizeSortKey(size)); err != nil {
				return 0, fmt.Errorf("insert size %s/%s: %w", cp.SKU, size, err)
			}
		}
		skus = append(skus, cp.SKU)
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE products SET is_active = FALSE, updated_at = NOW()
        WHERE is_active = TRUE AND NOT (sku = ANY($1))`, pq.Array(skus))
	if err != nil {
		return 0, fmt.Errorf("deactivate missing skus: %w", err)
	}
	deactivated, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit catalog tx: %w", err)
	}
	return int(deactivated), nil
}

// List returns active products matching filter plus the total match count.
// Page begins at 1; limit defaults to 24 and is capped at 100.
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	page, limit := filter.Page, filter.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 24
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE is_active = TRUE
        AND ($1 = '' OR brand ILIKE $1)
        AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
        AND ($3 = '' OR $3 = ANY(sizes))
        AND ($4::boolean IS NULL OR is_kids = $4)
        AND ($5::boolean IS NULL OR is_last_pair = $5)
        AND ($6::boolean IS NULL OR (sale_price IS NOT NULL) = $6)`

	args := []any{filter.Brand, filter.Search, filter.Size, filter.Kids, filter.LastPair, filter.OnSale}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM products `+baseWhere, args...); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM products ` + baseWhere + `
        ORDER BY ` + orderClause(filter.Sort) + ` LIMIT $7 OFFSET $8`
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, listQuery, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func orderClause(sort models.ProductSort) string {
	switch sort {
	case models.SortPriceAsc:
		return "COALESCE(sale_price, base_price) ASC, sku"
	case models.SortPriceDesc:
		return "COALESCE(sale_price, base_price) DESC, sku"
	case models.SortDiscount:
		return "discount_percent DESC, sku"
	default:
		return "created_at DESC, sku"
	}
}

// GetBySKU returns a single product, active or not, with its per-size stock.
// It returns sql.ErrNoRows when the SKU was never synced.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var p models.Product
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM products WHERE sku = $1 LIMIT 1`, sku); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	sizes, err := r.SizesBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	p.SizeStock = make(map[string]int, len(sizes))
	for _, s := range sizes {
		p.SizeStock[s.Size] = s.Stock
	}
	return &p, nil
}

// SizesBySKU returns the size rows of a SKU in display order.
func (r *ProductRepository) SizesBySKU(ctx context.Context, sku string) ([]models.ProductSize, error) {
	sizes := []models.ProductSize{}
	const q = `SELECT sku, size, stock, sort_key FROM product_sizes WHERE sku = $1 ORDER BY sort_key, size`
	if err := r.db.SelectContext(ctx, &sizes, q, sku); err != nil {
		return nil, err
	}
	return sizes, nil
}

// Brands returns the distinct brands of active products.
func (r *ProductRepository) Brands(ctx context.Context) ([]string, error) {
	brands := []string{}
	const q = `SELECT DISTINCT brand FROM products WHERE is_active = TRUE ORDER BY brand`
	if err := r.db.SelectContext(ctx, &brands, q); err != nil {
		return nil, err
	}
	return brands, nil
}
