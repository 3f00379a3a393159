package models

// DiagnosticsReport summarises feed quality for operators.
type DiagnosticsReport struct {
	TotalRows            int                `json:"totalRows"`
	ConsumedRows         int                `json:"consumedRows"`
	SkippedRows          int                `json:"skippedRows"`
	SkipReasons          map[SkipReason]int `json:"skipReasons"`
	StatusCounts         map[string]int     `json:"statusCounts"`
	UniqueSKUs           int                `json:"uniqueSkus"`
	Products             int                `json:"products"`
	ProductsWithoutImage int                `json:"productsWithoutImage"`
	MissingImageSKUs     []string           `json:"missingImageSkus"`
	ImagesChecked        bool               `json:"imagesChecked"`
	BrokenImages         int                `json:"brokenImages"`
	BrokenImageSKUs      []string           `json:"brokenImageSkus,omitempty"`
	LastPair             int                `json:"lastPair"`
	MultiSize            int                `json:"multiSize"`
	Kids                 int                `json:"kids"`
	OnSale               int                `json:"onSale"`
	TotalUnits           int                `json:"totalUnits"`
}
