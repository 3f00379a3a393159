package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GTDGit/kicks_api/internal/config"
	"github.com/GTDGit/kicks_api/internal/service"
	"github.com/GTDGit/kicks_api/pkg/sheetfeed"
)

var (
	// Global flags
	feedFile   string
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "inventoryctl",
	Short: "Inspect the inventory feed without touching the catalog",
	Long: `inventoryctl fetches the inventory spreadsheet (or a local CSV export),
runs it through the same normalization pipeline the API uses and prints
diagnostics or canonical products. It never writes to the database.

Feed settings are read from the FEED_* environment variables (.env is loaded).`,
	Version: "1.0.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&feedFile, "file", "f", "", "Read a local CSV export instead of the live feed")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func setupLogger() {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// newInventoryService wires the ingestion pipeline from the environment,
// reading from --file when it is set.
func newInventoryService(ctx context.Context) (*service.InventoryService, error) {
	feed, err := config.LoadFeed()
	if err != nil {
		return nil, err
	}

	var source sheetfeed.Fetcher
	if feedFile != "" {
		source = sheetfeed.FileSource{Path: feedFile}
	} else if source, err = service.NewFeedSource(ctx, feed); err != nil {
		return nil, err
	}

	log.Debug().Str("source", feed.Source).Str("file", feedFile).Msg("feed source ready")
	return service.NewInventoryService(source, *feed), nil
}
