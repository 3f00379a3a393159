package models

import (
	"time"

	"github.com/lib/pq"
)

// Product is a persisted catalog entry, one row per SKU.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	SKU             string         `db:"sku" json:"sku"`
	Name            string         `db:"name" json:"name"`
	Brand           string         `db:"brand" json:"brand"`
	Category        string         `db:"category" json:"category"`
	BasePrice       int64          `db:"base_price" json:"basePrice"`
	SalePrice       *int64         `db:"sale_price" json:"salePrice,omitempty"`
	DiscountPercent int            `db:"discount_percent" json:"discountPercent"`
	Sizes           pq.StringArray `db:"sizes" json:"sizes"`
	Images          pq.StringArray `db:"images" json:"images"`
	TotalStock      int            `db:"total_stock" json:"totalStock"`
	IsLastPair      bool           `db:"is_last_pair" json:"isLastPair"`
	IsMultiSize     bool           `db:"is_multi_size" json:"isMultiSize"`
	IsKids          bool           `db:"is_kids" json:"isKids"`
	IsActive        bool           `db:"is_active" json:"isActive"`
	SyncedAt        time.Time      `db:"synced_at" json:"syncedAt"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"-"`

	// Populated by GetBySKU from product_sizes.
	SizeStock map[string]int `db:"-" json:"sizeStock,omitempty"`
}

// ProductSize is the available unit count of one SKU at one size.
type ProductSize struct {
	SKU     string  `db:"sku" json:"sku"`
	Size    string  `db:"size" json:"size"`
	Stock   int     `db:"stock" json:"stock"`
	SortKey float64 `db:"sort_key" json:"-"`
}

// ProductSort enumerates the listing orders.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortDiscount  ProductSort = "discount"
)

// ProductFilter holds optional listing filters and pagination.
type ProductFilter struct {
	Brand    string
	Search   string
	Size     string
	Kids     *bool
	LastPair *bool
	OnSale   *bool
	Sort     ProductSort
	Page     int
	Limit    int
}

// ProductFromCanonical maps a canonical product to its persisted form.
func ProductFromCanonical(p CanonicalProduct, syncedAt time.Time) Product {
	return Product{
		SKU:             p.SKU,
		Name:            p.Name,
		Brand:           p.Brand,
		Category:        p.Category,
		BasePrice:       p.BasePrice,
		SalePrice:       p.SalePrice,
		DiscountPercent: p.DiscountPercent,
		Sizes:           pq.StringArray(p.Sizes),
		Images:          pq.StringArray(p.Images),
		TotalStock:      p.TotalStock,
		IsLastPair:      p.IsLastPair,
		IsMultiSize:     p.IsMultiSize,
		IsKids:          p.IsKids,
		IsActive:        true,
		SyncedAt:        syncedAt,
	}
}
