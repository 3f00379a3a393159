// Package inventory turns the raw inventory spreadsheet into canonical
// per-SKU products. Everything here is pure: no I/O, no logging and no
// package-level mutable state, so concurrent passes never interact.
package inventory

import (
	"math"
	"sort"
	"strings"

	"github.com/GTDGit/kicks_api/internal/models"
)

const (
	// DisallowedCondition marks legacy stock without provenance.
	DisallowedCondition = "NO RECORD"
	// DisallowedSupplier marks the 2024 legacy supplier batch.
	DisallowedSupplier = "2024"
)

// Result is the output of one canonicalization pass.
type Result struct {
	Products []models.CanonicalProduct
	Stats    models.IngestStats
}

// Options tunes Canonicalize.
type Options struct {
	ImageMode ImageMode
}

// RowsFromRecords maps parsed CSV records to raw rows using the column map.
// Records too short to carry every required field are returned as malformed
// and counted by Canonicalize through the malformed argument.
func RowsFromRecords(records [][]string, cols ColumnMap) (rows []models.RawInventoryRow, malformed int) {
	rows = make([]models.RawInventoryRow, 0, len(records))
	for _, rec := range records {
		row, ok := cols.Row(rec)
		if !ok {
			malformed++
			continue
		}
		rows = append(rows, row)
	}
	return rows, malformed
}

// SkipReasonFor returns why a row cannot be consumed, or "" when it can.
func SkipReasonFor(row models.RawInventoryRow) models.SkipReason {
	switch {
	case strings.TrimSpace(row.ItemCode) == "":
		return models.SkipMissingItemCode
	case strings.TrimSpace(row.Name) == "":
		return models.SkipMissingName
	case !strings.EqualFold(strings.TrimSpace(row.Status), models.StatusAvailable):
		return models.SkipWrongStatus
	case strings.EqualFold(strings.TrimSpace(row.Condition), DisallowedCondition):
		return models.SkipDisallowedCondition
	case strings.TrimSpace(row.Supplier) == DisallowedSupplier:
		return models.SkipDisallowedSupplier
	case !ParsePrice(row.SellingPrice).IsPositive():
		return models.SkipZeroPrice
	}
	return ""
}

// Pricing derives base price, sale price and discount (all centavos) from the
// selling price and SRP text of a row.
//
// The base price is the SRP when it is positive, otherwise the selling price.
// A sale price exists only when the SRP is positive and above the selling price.
func Pricing(sellingPrice, srp string) (base int64, sale *int64, discount int) {
	selling := ToCentavos(ParsePrice(sellingPrice))
	retail := ToCentavos(ParsePrice(srp))

	if retail <= 0 {
		return selling, nil, 0
	}
	base = retail
	if retail > selling {
		s := selling
		sale = &s
		discount = int(math.Round(float64(base-selling) / float64(base) * 100))
		discount = min(max(discount, 0), 100)
	}
	return base, sale, discount
}

// productAccumulator gathers the rows of one SKU.
type productAccumulator struct {
	product   models.CanonicalProduct
	rawSizeCM bool
	sizeOrder []string
}

// Canonicalize groups consumable rows by SKU into canonical products.
// Products come back in order of first appearance of their SKU; sizes within a
// product are sorted by SizeSortKey, ties keeping feed order.
func Canonicalize(rows []models.RawInventoryRow, opts Options) Result {
	return canonicalize(rows, 0, opts)
}

// CanonicalizeRecords maps records through the column map and canonicalizes them.
func CanonicalizeRecords(records [][]string, cols ColumnMap, opts Options) Result {
	rows, malformed := RowsFromRecords(records, cols)
	return canonicalize(rows, malformed, opts)
}

func canonicalize(rows []models.RawInventoryRow, malformed int, opts Options) Result {
	if opts.ImageMode == "" {
		opts.ImageMode = ImageThumbnail
	}

	stats := models.IngestStats{
		TotalRows:    len(rows) + malformed,
		SkippedRows:  malformed,
		SkipReasons:  map[models.SkipReason]int{},
		StatusCounts: map[string]int{},
	}
	if malformed > 0 {
		stats.SkipReasons[models.SkipMalformed] = malformed
	}

	groups := make(map[string]*productAccumulator)
	order := make([]string, 0)
	seenSKUs := make(map[string]struct{})

	for _, row := range rows {
		status := strings.ToUpper(strings.TrimSpace(row.Status))
		if status == "" {
			status = "(blank)"
		}
		stats.StatusCounts[status]++

		key := groupKey(row)
		if key != "" {
			seenSKUs[key] = struct{}{}
		}

		if reason := SkipReasonFor(row); reason != "" {
			stats.SkippedRows++
			stats.SkipReasons[reason]++
			continue
		}
		stats.ConsumedRows++

		image := ResolveImageURL(row.ProductsURL, opts.ImageMode)
		if image == "" {
			stats.RowsWithoutImage++
		}

		acc, ok := groups[key]
		if !ok {
			acc = seed(key, row, image)
			groups[key] = acc
			order = append(order, key)
		} else if len(acc.product.Images) == 0 && image != "" {
			acc.product.Images = append(acc.product.Images, image)
		}
		acc.add(row)
	}
	stats.UniqueSKUs = len(seenSKUs)

	products := make([]models.CanonicalProduct, 0, len(order))
	for _, key := range order {
		products = append(products, groups[key].finish())
	}
	return Result{Products: products, Stats: stats}
}

// groupKey is the SKU, or the item code for rows that carry no SKU.
func groupKey(row models.RawInventoryRow) string {
	if sku := strings.TrimSpace(row.SKU); sku != "" {
		return sku
	}
	return strings.TrimSpace(row.ItemCode)
}

func seed(key string, row models.RawInventoryRow, image string) *productAccumulator {
	base, sale, discount := Pricing(row.SellingPrice, row.SRP)
	images := []string{}
	if image != "" {
		images = append(images, image)
	}
	return &productAccumulator{
		product: models.CanonicalProduct{
			SKU:             key,
			Name:            strings.TrimSpace(row.Name),
			Brand:           Brand(row.Name, row.SKU),
			Category:        models.CategorySneakers,
			BasePrice:       base,
			SalePrice:       sale,
			DiscountPercent: discount,
			Sizes:           []string{},
			SizeStock:       map[string]int{},
			Images:          images,
			ItemCodes:       []string{},
		},
	}
}

func (a *productAccumulator) add(row models.RawInventoryRow) {
	p := &a.product
	p.ItemCodes = append(p.ItemCodes, strings.TrimSpace(row.ItemCode))
	p.TotalStock++
	if IsKidsSizeLabel(row.Size) {
		a.rawSizeCM = true
	}

	size := NormalizeSize(row.Size)
	if size == "" {
		return
	}
	if _, ok := p.SizeStock[size]; !ok {
		a.sizeOrder = append(a.sizeOrder, size)
	}
	p.SizeStock[size]++
}

func (a *productAccumulator) finish() models.CanonicalProduct {
	p := a.product
	sizes := append([]string(nil), a.sizeOrder...)
	sort.SliceStable(sizes, func(i, j int) bool {
		return SizeSortKey(sizes[i]) < SizeSortKey(sizes[j])
	})
	if sizes == nil {
		sizes = []string{}
	}
	p.Sizes = sizes
	p.IsLastPair = len(sizes) == 1
	p.IsMultiSize = len(sizes) > 1
	p.IsKids = a.rawSizeCM || IsKidsName(p.Name)
	return p
}
