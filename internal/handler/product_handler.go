package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/service"
	"github.com/GTDGit/kicks_api/internal/utils"
)

// ProductHandler handles storefront product endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts returns the product list with optional filters and pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := models.ProductFilter{
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		Size:     c.Query("size"),
		Kids:     queryBool(c, "kids"),
		LastPair: queryBool(c, "lastPair"),
		OnSale:   queryBool(c, "onSale"),
		Sort:     models.ProductSort(c.DefaultQuery("sort", string(models.SortNewest))),
		Page:     1,
		Limit:    24,
	}

	// pagination
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = min(n, 100)
		}
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get products")
		return
	}

	utils.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", gin.H{
		"products": products,
	}, filter.Page, filter.Limit, total)
}

// GetProduct returns one product with per-size stock.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("sku"))
	if errors.Is(err, utils.ErrProductNotFound) {
		utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get product")
		return
	}
	utils.Success(c, http.StatusOK, "Product retrieved successfully", product)
}

// GetBrands returns the distinct brands of the active catalog.
func (h *ProductHandler) GetBrands(c *gin.Context) {
	brands, err := h.productService.Brands(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get brands")
		return
	}
	utils.Success(c, http.StatusOK, "Brands retrieved successfully", gin.H{"brands": brands})
}

// queryBool returns nil when the parameter is absent or not a bool.
func queryBool(c *gin.Context, key string) *bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
