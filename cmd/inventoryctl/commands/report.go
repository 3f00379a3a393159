package commands

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/GTDGit/kicks_api/cmd/inventoryctl/output"
	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/service"
)

var checkImages bool

// reportCmd prints feed diagnostics
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise feed quality",
	Long: `Fetch the feed, canonicalize it and print row counts, skip reasons,
status breakdown and product flags.

Examples:
  inventoryctl report
  inventoryctl report --file export.csv --json
  inventoryctl report --check-images`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&checkImages, "check-images", false, "Download each product's first image and verify it decodes")
}

func runReport(cmd *cobra.Command) error {
	ctx := cmd.Context()
	inventorySvc, err := newInventoryService(ctx)
	if err != nil {
		return err
	}

	diagnostics := service.NewDiagnosticsService(inventorySvc, service.NewImageChecker(15*time.Second))
	report, err := diagnostics.Report(ctx, service.ReportOptions{CheckImages: checkImages})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(report)
	return nil
}

func printReport(r *models.DiagnosticsReport) {
	output.Section("Feed")
	output.KeyValue("Total rows", r.TotalRows)
	output.KeyValue("Consumed rows", r.ConsumedRows)
	output.KeyValue("Skipped rows", r.SkippedRows)
	output.KeyValue("Unique SKUs", r.UniqueSKUs)

	if len(r.SkipReasons) > 0 {
		output.Section("Skip reasons")
		reasons := make([]string, 0, len(r.SkipReasons))
		for reason := range r.SkipReasons {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			output.KeyValue(reason, r.SkipReasons[models.SkipReason(reason)])
		}
	}

	if len(r.StatusCounts) > 0 {
		output.Section("Statuses")
		statuses := make([]string, 0, len(r.StatusCounts))
		for s := range r.StatusCounts {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			output.KeyValue(s, r.StatusCounts[s])
		}
	}

	output.Section("Catalog")
	output.KeyValue("Products", r.Products)
	output.KeyValue("Units", r.TotalUnits)
	output.KeyValue("Last pair", r.LastPair)
	output.KeyValue("Multi size", r.MultiSize)
	output.KeyValue("Kids", r.Kids)
	output.KeyValue("On sale", r.OnSale)

	if r.ProductsWithoutImage > 0 {
		output.Warning("%d products without image: %v", r.ProductsWithoutImage, r.MissingImageSKUs)
	} else {
		output.Success("every product has an image")
	}
	if r.ImagesChecked {
		if r.BrokenImages > 0 {
			output.Error("%d broken images: %v", r.BrokenImages, r.BrokenImageSKUs)
		} else {
			output.Success("all images decode")
		}
	}
}
