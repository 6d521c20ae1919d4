package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zonewise/api/internal/config"
	"github.com/zonewise/api/internal/database"
	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/repository"
	"github.com/zonewise/api/internal/seeds"
)

func main() {
	shapefilePath := flag.String("shapefile", "", "DCP zoning shapefile; replaces seeded district boundaries with real polygons")
	flag.Parse()

	// Load .env if present; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
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

	// Apply schema; every statement is idempotent
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to apply database schema", err, nil)
	}

	seeder := seeds.New(
		repository.NewPropertyRepository(db.Pool),
		repository.NewZoningRepository(db.Pool),
		repository.NewIncentiveRepository(db.Pool),
		repository.NewLandmarkRepository(db.Pool),
		log,
	)

	summary, err := seeder.Run(ctx)
	if err != nil {
		log.Fatal("Seeding failed", err, nil)
	}

	if *shapefilePath != "" {
		boundaries, err := seeds.LoadBoundaries(*shapefilePath)
		if err != nil {
			log.Fatal("Failed to read shapefile", err, map[string]interface{}{
				"path": *shapefilePath,
			})
		}
		if _, _, err := seeder.ImportBoundaries(ctx, boundaries); err != nil {
			log.Fatal("Failed to import district boundaries", err, nil)
		}
	}

	log.Info("Database ready", map[string]interface{}{
		"districts":  summary.DistrictsCreated + summary.DistrictsSkipped,
		"programs":   summary.ProgramsCreated + summary.ProgramsSkipped,
		"landmarks":  summary.LandmarksCreated + summary.LandmarksSkipped,
		"properties": summary.PropertiesCreated + summary.PropertiesSkipped,
	})
}
