package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GTDGit/kicks_api/internal/models"
)

var previewSKU string

// previewCmd prints canonical products
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print canonical products as JSON",
	Long: `Fetch and canonicalize the feed, then print the resulting products.

Examples:
  inventoryctl preview
  inventoryctl preview --sku DD1391-100 --file export.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&previewSKU, "sku", "", "Only print the product with this SKU")
}

func runPreview(cmd *cobra.Command) error {
	ctx := cmd.Context()
	inventorySvc, err := newInventoryService(ctx)
	if err != nil {
		return err
	}

	result, err := inventorySvc.Ingest(ctx)
	if err != nil {
		return err
	}

	products := filterBySKU(result.Products, previewSKU)
	if previewSKU != "" && len(products) == 0 {
		return fmt.Errorf("sku %q not found in feed", previewSKU)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(products)
}

func filterBySKU(products []models.CanonicalProduct, sku string) []models.CanonicalProduct {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return products
	}
	out := make([]models.CanonicalProduct, 0, 1)
	for _, p := range products {
		if strings.EqualFold(p.SKU, sku) {
			out = append(out, p)
		}
	}
	return out
}
