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
	"github.com/joho/godotenv"

	"github.com/zonewise/api/internal/config"
	"github.com/zonewise/api/internal/database"
	"github.com/zonewise/api/internal/geocoding"
	"github.com/zonewise/api/internal/handlers"
	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/middleware"
	"github.com/zonewise/api/internal/repository"
	"github.com/zonewise/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load .env if present; deployed environments set variables directly.
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting ZoneWise API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Apply schema; every statement is idempotent
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to apply database schema", err, nil)
	}

	// Geocoding provider (mapbox in production, static elsewhere)
	geocoder, err := geocoding.New(cfg.Geocoding, cfg.Analysis.NYCBounds)
	if err != nil {
		log.Fatal("Failed to initialize geocoder", err, map[string]interface{}{
			"provider": cfg.Geocoding.Provider,
		})
	}
	log.Info("Geocoder initialized", map[string]interface{}{
		"provider": geocoder.Name(),
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> RateLimit -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(limiter.Middleware())
	}
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository layer
	propertyRepo := repository.NewPropertyRepository(db.Pool)
	zoningRepo := repository.NewZoningRepository(db.Pool)
	incentiveRepo := repository.NewIncentiveRepository(db.Pool)
	landmarkRepo := repository.NewLandmarkRepository(db.Pool)
	statsRepo := repository.NewStatsRepository(db.Pool)

	// Initialize service layer
	propertyService := services.NewPropertyService(propertyRepo, zoningRepo, geocoder, cfg.Analysis, log)
	analysisService := services.NewAnalysisService(propertyRepo, zoningRepo, incentiveRepo, landmarkRepo, cfg.Analysis, log)
	referenceService := services.NewReferenceService(zoningRepo, incentiveRepo, landmarkRepo, statsRepo, log)

	// Initialize handlers
	propertyHandler := handlers.NewPropertyHandler(propertyService, analysisService)
	zoningHandler := handlers.NewZoningHandler(analysisService, referenceService)
	incentiveHandler := handlers.NewIncentiveHandler(analysisService, referenceService)
	airRightsHandler := handlers.NewAirRightsHandler(analysisService)
	landmarkHandler := handlers.NewLandmarkHandler(analysisService, referenceService)
	reportHandler := handlers.NewReportHandler(analysisService)
	statsHandler := handlers.NewStatsHandler(referenceService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		properties := v1.Group("/properties")
		{
			properties.POST("/analyze", propertyHandler.Analyze)
			properties.GET("", propertyHandler.List)
			properties.GET("/search", propertyHandler.Search)
			properties.GET("/:id", propertyHandler.Get)
			properties.PATCH("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)
			properties.GET("/:id/analysis", propertyHandler.FullAnalysis)
			properties.GET("/:id/zoning", zoningHandler.PropertyZoning)
			properties.GET("/:id/setbacks", zoningHandler.PropertySetbacks)
			properties.GET("/:id/tax-incentives", incentiveHandler.PropertyIncentives)
			properties.GET("/:id/air-rights", airRightsHandler.PropertyAirRights)
			properties.GET("/:id/air-rights/recipients", airRightsHandler.Recipients)
			properties.GET("/:id/landmarks", landmarkHandler.PropertyLandmarks)
			properties.GET("/:id/report.xlsx", reportHandler.Workbook)
		}

		zoning := v1.Group("/zoning")
		{
			zoning.GET("/districts", zoningHandler.Districts)
			zoning.GET("/districts/:code", zoningHandler.DistrictByCode)
			zoning.POST("/far-calculator", zoningHandler.CalculateFAR)
			zoning.POST("/compliance-check", zoningHandler.CheckCompliance)
		}

		airRights := v1.Group("/air-rights")
		{
			airRights.POST("/simulate-transfer", airRightsHandler.SimulateTransfer)
			airRights.GET("/market-data", airRightsHandler.MarketData)
		}

		landmarks := v1.Group("/landmarks")
		{
			landmarks.GET("", landmarkHandler.List)
			landmarks.GET("/:id", landmarkHandler.Get)
		}

		v1.GET("/tax-incentives/programs", incentiveHandler.Programs)
		v1.POST("/reports/preview", reportHandler.Preview)
		v1.GET("/stats", statsHandler.Stats)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
