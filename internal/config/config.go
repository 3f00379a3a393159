package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"

	"github.com/GTDGit/kicks_api/internal/inventory"
)

// Feed source identifiers accepted by FEED_SOURCE.
const (
	FeedSourceCSVExport = "csv_export"
	FeedSourceSheetsAPI = "sheets_api"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	// CORSAllowedHosts overrides the storefront origins allowed by CORS.
	CORSAllowedHosts []string

	DB      DatabaseConfig
	Redis   RedisConfig
	Feed    FeedConfig
	Archive ArchiveConfig
	Worker  WorkerConfig
	Sync    SyncConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// FeedConfig describes the inventory spreadsheet and how to read it.
type FeedConfig struct {
	Source          string
	DocumentID      string
	GID             string
	SheetRange      string
	BaseURL         string
	CredentialsFile string
	FetchTimeout    time.Duration
	HasHeader       bool
	StrictHeader    bool
	ImageMode       inventory.ImageMode
	Columns         inventory.ColumnMap
}

// ArchiveConfig contains the S3 location raw feed snapshots are archived to.
// An empty Bucket disables archiving.
type ArchiveConfig struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SyncInterval time.Duration
}

// SyncConfig controls manual sync throttling and catalog caching.
type SyncConfig struct {
	RatePerMinute int
	CacheTTL      time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = getEnvList("CORS_ALLOWED_HOSTS")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	feed, err := loadFeed()
	if err != nil {
		return nil, err
	}
	cfg.Feed = *feed

	// Archive (S3)
	cfg.Archive = ArchiveConfig{
		Bucket:          getEnv("ARCHIVE_BUCKET", ""),
		Prefix:          getEnv("ARCHIVE_PREFIX", "inventory-feed"),
		Region:          getEnv("ARCHIVE_REGION", "ap-southeast-1"),
		Endpoint:        getEnv("ARCHIVE_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Workers (durations)
	if cfg.Worker.SyncInterval, err = parseDurationEnv("WORKER_SYNC_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid WORKER_SYNC_INTERVAL: %w", err)
	}

	cfg.Sync.RatePerMinute = getEnvInt("SYNC_RATE_PER_MINUTE", 2)
	if cfg.Sync.CacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL: %w", err)
	}

	// Basic validation for DB parameters.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// LoadFeed reads only the feed section. Tools that never touch the database
// use it instead of Load.
func LoadFeed() (*FeedConfig, error) {
	_ = godotenv.Load()
	return loadFeed()
}

func loadFeed() (*FeedConfig, error) {
	feed := &FeedConfig{
		Source:          strings.ToLower(getEnv("FEED_SOURCE", FeedSourceCSVExport)),
		DocumentID:      getEnv("FEED_DOCUMENT_ID", ""),
		GID:             getEnv("FEED_GID", "0"),
		SheetRange:      getEnv("FEED_SHEET_RANGE", "A:Z"),
		BaseURL:         getEnv("FEED_BASE_URL", "https://docs.google.com"),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		HasHeader:       getEnvBool("FEED_HAS_HEADER", true),
		StrictHeader:    getEnvBool("FEED_STRICT_HEADER", false),
		ImageMode:       inventory.ParseImageMode(getEnv("FEED_IMAGE_MODE", string(inventory.ImageThumbnail))),
	}

	var err error
	if feed.FetchTimeout, err = parseDurationEnv("FEED_FETCH_TIMEOUT", "8s"); err != nil {
		return nil, fmt.Errorf("invalid FEED_FETCH_TIMEOUT: %w", err)
	}

	switch feed.Source {
	case FeedSourceCSVExport, FeedSourceSheetsAPI:
	default:
		return nil, fmt.Errorf("invalid FEED_SOURCE %q: expected %s or %s", feed.Source, FeedSourceCSVExport, FeedSourceSheetsAPI)
	}

	if feed.Columns, err = loadColumns(); err != nil {
		return nil, err
	}

	return feed, nil
}

// loadColumns applies FEED_COL_<FIELD> overrides, e.g. FEED_COL_SELLING_PRICE=5,
// on top of the default layout and validates the result.
func loadColumns() (inventory.ColumnMap, error) {
	cols := inventory.DefaultColumnMap()
	for _, field := range cols.FieldNames() {
		key := columnEnvKey(field)
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return cols, fmt.Errorf("invalid %s: %w", key, err)
		}
		if err := cols.Set(field, idx); err != nil {
			return cols, fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	if err := cols.Validate(); err != nil {
		return cols, fmt.Errorf("invalid feed column layout: %w", err)
	}
	return cols, nil
}

// columnEnvKey turns "sellingPrice" into "FEED_COL_SELLING_PRICE".
func columnEnvKey(field string) string {
	var b strings.Builder
	b.WriteString("FEED_COL_")
	for i, r := range field {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvList splits a comma-separated environment variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvBool returns the value of an environment variable as a bool or a default if empty/invalid.
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
