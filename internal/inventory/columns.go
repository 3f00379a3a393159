package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GTDGit/kicks_api/internal/models"
)

var (
	// ErrInvalidColumnMap is returned when column offsets are negative or collide.
	ErrInvalidColumnMap = errors.New("INVALID_COLUMN_MAP")
	// ErrHeaderMismatch is returned when the feed header disagrees with the column map.
	ErrHeaderMismatch = errors.New("HEADER_MISMATCH")
)

// ColumnMap holds the zero-based position of every logical field in a feed row.
type ColumnMap struct {
	ItemCode     int
	Name         int
	SKU          int
	Size         int
	UnitCost     int
	SellingPrice int
	Status       int
	Supplier     int
	Condition    int
	DateAdded    int
	Notes        int
	SRP          int
	ImageURL     int
}

// DefaultColumnMap is the layout of the inventory spreadsheet.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		ItemCode:     0,
		Name:         1,
		SKU:          2,
		Size:         3,
		UnitCost:     4,
		SellingPrice: 5,
		Status:       6,
		Supplier:     7,
		Condition:    8,
		DateAdded:    9,
		Notes:        10,
		SRP:          13,
		ImageURL:     18,
	}
}

// column pairs a field name with a pointer into a ColumnMap.
type column struct {
	name     string
	index    *int
	required bool
	headers  []string
}

func (m *ColumnMap) columns() []column {
	return []column{
		{"itemCode", &m.ItemCode, true, []string{"ITEM CODE", "ITEMCODE", "ITEM_CODE", "CODE"}},
		{"name", &m.Name, true, []string{"DETAILS", "NAME", "PRODUCT NAME", "ITEM NAME", "DESCRIPTION"}},
		{"sku", &m.SKU, true, []string{"SKU", "STYLE CODE", "STYLE"}},
		{"size", &m.Size, true, []string{"SIZE", "SIZES"}},
		{"unitCost", &m.UnitCost, false, []string{"UNIT COST", "COST"}},
		{"sellingPrice", &m.SellingPrice, true, []string{"SELLING PRICE", "PRICE", "SP"}},
		{"status", &m.Status, true, []string{"STATUS"}},
		{"supplier", &m.Supplier, false, []string{"SUPPLIER"}},
		{"condition", &m.Condition, false, []string{"CONDITION"}},
		{"dateAdded", &m.DateAdded, false, []string{"DATE ADDED", "DATE"}},
		{"notes", &m.Notes, false, []string{"NOTES", "REMARKS"}},
		{"srp", &m.SRP, false, []string{"SRP", "RETAIL PRICE"}},
		{"imageUrl", &m.ImageURL, false, []string{"PRODUCTS URL", "PRODUCT URL", "IMAGE", "IMAGE URL", "PHOTO"}},
	}
}

// Set overrides the offset of one field by its logical name (case-insensitive).
func (m *ColumnMap) Set(field string, index int) error {
	for _, c := range m.columns() {
		if strings.EqualFold(c.name, field) {
			*c.index = index
			return nil
		}
	}
	return fmt.Errorf("%w: unknown field %q", ErrInvalidColumnMap, field)
}

// FieldNames lists the logical field names accepted by Set.
func (m ColumnMap) FieldNames() []string {
	cols := m.columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// Validate checks that every offset is non-negative and unique.
func (m ColumnMap) Validate() error {
	seen := make(map[int]string)
	for _, c := range m.columns() {
		if *c.index < 0 {
			return fmt.Errorf("%w: %s has negative offset %d", ErrInvalidColumnMap, c.name, *c.index)
		}
		if other, dup := seen[*c.index]; dup {
			return fmt.Errorf("%w: %s and %s share offset %d", ErrInvalidColumnMap, other, c.name, *c.index)
		}
		seen[*c.index] = c.name
	}
	return nil
}

// MinFields is the number of cells a record needs to carry every required field.
func (m ColumnMap) MinFields() int {
	n := 0
	for _, c := range m.columns() {
		if c.required && *c.index+1 > n {
			n = *c.index + 1
		}
	}
	return n
}

// ValidateHeader compares a header row with the map. Every mapped column that
// is present in the header must carry one of the labels known for its field.
func (m ColumnMap) ValidateHeader(header []string) error {
	var mismatched []string
	for _, c := range m.columns() {
		if *c.index >= len(header) {
			if c.required {
				mismatched = append(mismatched, fmt.Sprintf("%s(missing col %d)", c.name, *c.index))
			}
			continue
		}
		got := normalizeHeader(header[*c.index])
		ok := false
		for _, want := range c.headers {
			if got == want {
				ok = true
				break
			}
		}
		if !ok {
			mismatched = append(mismatched, fmt.Sprintf("%s(col %d=%q)", c.name, *c.index, header[*c.index]))
		}
	}
	if len(mismatched) > 0 {
		return fmt.Errorf("%w: %s", ErrHeaderMismatch, strings.Join(mismatched, ", "))
	}
	return nil
}

// Row maps one record onto a RawInventoryRow. It reports false when the
// record is too short to hold every required field. Optional cells beyond the
// end of the record are left empty.
func (m ColumnMap) Row(record []string) (models.RawInventoryRow, bool) {
	if len(record) < m.MinFields() {
		return models.RawInventoryRow{}, false
	}
	cell := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	return models.RawInventoryRow{
		ItemCode:     cell(m.ItemCode),
		Name:         cell(m.Name),
		SKU:          cell(m.SKU),
		Size:         cell(m.Size),
		UnitCost:     cell(m.UnitCost),
		SellingPrice: cell(m.SellingPrice),
		Status:       cell(m.Status),
		Supplier:     cell(m.Supplier),
		Condition:    cell(m.Condition),
		DateAdded:    cell(m.DateAdded),
		Notes:        cell(m.Notes),
		SRP:          cell(m.SRP),
		ProductsURL:  cell(m.ImageURL),
	}, true
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}
