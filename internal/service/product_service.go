package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/utils"
)

// ProductReader is the read side of the product repository.
type ProductReader interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Brands(ctx context.Context) ([]string, error)
}

// ProductService provides storefront product queries.
type ProductService struct {
	productRepo ProductReader
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo ProductReader) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductResponse is the outward-facing payload for product listing.
type ProductResponse struct {
	SKU             string         `json:"sku"`
	Name            string         `json:"name"`
	Brand           string         `json:"brand"`
	Category        string         `json:"category"`
	BasePrice       int64          `json:"basePrice"`
	SalePrice       *int64         `json:"salePrice,omitempty"`
	DiscountPercent int            `json:"discountPercent"`
	Sizes           []string       `json:"sizes"`
	SizeStock       map[string]int `json:"sizeStock,omitempty"`
	Images          []string       `json:"images"`
	TotalStock      int            `json:"totalStock"`
	IsLastPair      bool           `json:"isLastPair"`
	IsMultiSize     bool           `json:"isMultiSize"`
	IsKids          bool           `json:"isKids"`
	SyncedAt        time.Time      `json:"syncedAt"`
}

func toResponse(p models.Product) ProductResponse {
	sizes := []string(p.Sizes)
	if sizes == nil {
		sizes = []string{}
	}
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		SKU:             p.SKU,
		Name:            p.Name,
		Brand:           p.Brand,
		Category:        p.Category,
		BasePrice:       p.BasePrice,
		SalePrice:       p.SalePrice,
		DiscountPercent: p.DiscountPercent,
		Sizes:           sizes,
		SizeStock:       p.SizeStock,
		Images:          images,
		TotalStock:      p.TotalStock,
		IsLastPair:      p.IsLastPair,
		IsMultiSize:     p.IsMultiSize,
		IsKids:          p.IsKids,
		SyncedAt:        p.SyncedAt,
	}
}

// List returns active products with filters and pagination, plus the total match count.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]ProductResponse, int, error) {
	filter.Brand = strings.TrimSpace(filter.Brand)
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Size = strings.TrimSpace(filter.Size)

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toResponse(p))
	}
	return result, total, nil
}

// Get returns one active product with per-size stock.
func (s *ProductService) Get(ctx context.Context, sku string) (*ProductResponse, error) {
	p, err := s.productRepo.GetBySKU(ctx, strings.TrimSpace(sku))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, utils.ErrProductNotFound
	}
	resp := toResponse(*p)
	return &resp, nil
}

// Brands returns the brand facet of the active catalog.
func (s *ProductService) Brands(ctx context.Context) ([]string, error) {
	return s.productRepo.Brands(ctx)
}
