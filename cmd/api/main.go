package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kicks_api/internal/cache"
	"github.com/GTDGit/kicks_api/internal/config"
	"github.com/GTDGit/kicks_api/internal/database"
	"github.com/GTDGit/kicks_api/internal/handler"
	"github.com/GTDGit/kicks_api/internal/middleware"
	"github.com/GTDGit/kicks_api/internal/repository"
	"github.com/GTDGit/kicks_api/internal/service"
	"github.com/GTDGit/kicks_api/internal/sse"
	"github.com/GTDGit/kicks_api/internal/utils"
	"github.com/GTDGit/kicks_api/internal/worker"
)

// main is the application entrypoint for the kicks catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("feed_source", cfg.Feed.Source).Msg("starting kicks api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.Migrate(db.DB, database.DefaultMigrationsURL); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	catalogCache := cache.NewCatalogCache(redisClient, cfg.Sync.CacheTTL)

	// 4. Feed source and archive
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := service.NewFeedSource(ctx, &cfg.Feed)
	if err != nil {
		log.Error().Err(err).Msg("feed source initialization failed")
		fmt.Fprintf(os.Stderr, "feed source initialization failed: %v\n", err)
		os.Exit(1)
	}

	archiveSvc, err := service.NewArchiveService(ctx, &cfg.Archive)
	if err != nil {
		log.Warn().Err(err).Msg("archive initialization failed - feed snapshots will not be archived")
		archiveSvc = nil
	}
	if archiveSvc == nil {
		log.Info().Msg("feed archive disabled")
	}

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	syncRunRepo := repository.NewSyncRunRepository(db)

	// 6. Initialize services
	hub := sse.NewHub()
	inventorySvc := service.NewInventoryService(source, cfg.Feed)
	syncSvc := service.NewSyncService(inventorySvc, productRepo, syncRunRepo, catalogCache, archiveSvc, sse.NewHubNotifier(hub))
	productSvc := service.NewProductService(productRepo)
	diagnosticsSvc := service.NewDiagnosticsService(inventorySvc, service.NewImageChecker(10*time.Second))

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(db, handler.PingFunc(redisClient.Ping), catalogCache),
		Product:   handler.NewProductHandler(productSvc),
		Inventory: handler.NewInventoryHandler(syncSvc, diagnosticsSvc),
		SSE:       handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(middleware.NewInvalidAuthRateLimiter())
	syncLimiter := middleware.NewSyncRateLimiter(cfg.Sync.RatePerMinute)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, syncLimiter)

	// 10. Start workers
	go worker.NewSyncWorker(syncSvc, cfg.Worker.SyncInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Product   *handler.ProductHandler
	Inventory *handler.InventoryHandler
	SSE       *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, syncLimiter *middleware.SyncRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Storefront catalog (public)
	products := router.Group("/v1/products")
	{
		products.GET("", handlers.Product.GetProducts)
		products.GET("/brands", handlers.Product.GetBrands)
		products.GET("/:sku", handlers.Product.GetProduct)
	}

	// SSE authenticates with ?token= since EventSource cannot send headers
	router.GET("/v1/admin/sse", handlers.SSE.Stream)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle())
	{
		admin.POST("/inventory/sync", syncLimiter.Handle(), handlers.Inventory.Sync)
		admin.GET("/inventory/preview", handlers.Inventory.Preview)
		admin.GET("/inventory/report", handlers.Inventory.Report)
		admin.GET("/inventory/snapshot", handlers.Inventory.Snapshot)
		admin.GET("/inventory/runs", handlers.Inventory.Runs)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
