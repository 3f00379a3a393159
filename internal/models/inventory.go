package models

import "time"

// StatusAvailable is the only feed status that denotes sellable stock.
const StatusAvailable = "AVAILABLE"

// CategorySneakers is the fixed category assigned to every canonical product.
const CategorySneakers = "Sneakers"

// RawInventoryRow is one line of the inventory spreadsheet. Every field is kept
// as the free text found in the feed; parsing happens during canonicalization.
type RawInventoryRow struct {
	ItemCode     string `json:"itemCode"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Size         string `json:"size"`
	UnitCost     string `json:"unitCost"`
	SellingPrice string `json:"sellingPrice"`
	Status       string `json:"status"`
	Supplier     string `json:"supplier"`
	Condition    string `json:"condition"`
	DateAdded    string `json:"dateAdded"`
	Notes        string `json:"notes"`
	SRP          string `json:"srp"`
	ProductsURL  string `json:"productsUrl"`
}

// CanonicalProduct is the per-SKU view model derived from the raw feed.
// Prices are in centavos.
type CanonicalProduct struct {
	SKU             string         `json:"sku"`
	Name            string         `json:"name"`
	Brand           string         `json:"brand"`
	Category        string         `json:"category"`
	BasePrice       int64          `json:"basePrice"`
	SalePrice       *int64         `json:"salePrice,omitempty"`
	DiscountPercent int            `json:"discountPercent"`
	Sizes           []string       `json:"sizes"`
	SizeStock       map[string]int `json:"sizeStock"`
	Images          []string       `json:"images"`
	ItemCodes       []string       `json:"itemCodes"`
	TotalStock      int            `json:"totalStock"`
	IsLastPair      bool           `json:"isLastPair"`
	IsMultiSize     bool           `json:"isMultiSize"`
	IsKids          bool           `json:"isKids"`
}

// SkipReason names why a feed row was not consumed.
type SkipReason string

const (
	SkipMalformed           SkipReason = "malformed_row"
	SkipMissingItemCode     SkipReason = "missing_item_code"
	SkipMissingName         SkipReason = "missing_name"
	SkipWrongStatus         SkipReason = "wrong_status"
	SkipDisallowedCondition SkipReason = "disallowed_condition"
	SkipDisallowedSupplier  SkipReason = "disallowed_supplier"
	SkipZeroPrice           SkipReason = "zero_price"
)

// IngestStats is the feed-quality accounting of one canonicalization pass.
type IngestStats struct {
	TotalRows        int                `json:"totalRows"`
	ConsumedRows     int                `json:"consumedRows"`
	SkippedRows      int                `json:"skippedRows"`
	SkipReasons      map[SkipReason]int `json:"skipReasons"`
	RowsWithoutImage int                `json:"rowsWithoutImage"`
	UniqueSKUs       int                `json:"uniqueSkus"`
	StatusCounts     map[string]int     `json:"statusCounts"`
}

// IngestResult is the output of one fetch-and-canonicalize pass.
type IngestResult struct {
	Products    []CanonicalProduct `json:"products"`
	Stats       IngestStats        `json:"stats"`
	Fingerprint string             `json:"fingerprint"`
	Source      string             `json:"source"`
	FetchedAt   time.Time          `json:"fetchedAt"`

	// Raw is the feed body the result was computed from.
	Raw []byte `json:"-"`
}
