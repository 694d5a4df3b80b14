package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mini-shelf/internal/config"
	"mini-shelf/internal/database"
	"mini-shelf/internal/repository"
	"mini-shelf/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var bundlePath string
	flag.StringVar(&bundlePath, "bundle", "", "path to a gzipped JSON-lines catalogue bundle (required)")
	flag.Parse()

	if bundlePath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -bundle flag")
	}

	// Load .env if present; a missing file is not an error
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "mini-shelf-seed")
	logger.Info().Str("bundle", bundlePath).Msg("starting catalogue seeding")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Run migrations so a fresh database can be seeded directly
	if err := database.Migrate(cfg.Database.ConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize bundle loader with S3 and local fallback
	fileLoader := seed.NewFileLoader(logger)
	bundleLoader := fileLoader

	if cfg.Seed.S3Enabled {
		s3Loader, err := seed.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			bundleLoader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Prefix, true, logger)
		}
	} else {
		logger.Info().Msg("using local file system for catalogue bundles (S3 disabled)")
	}

	records, err := bundleLoader.Load(ctx, bundlePath)
	if err != nil {
		return fmt.Errorf("failed to load bundle: %w", err)
	}

	// Import records into the catalogue
	productRepo := repository.NewProductRepository(pool, logger)
	importer := seed.NewImporter(productRepo, logger)

	count, err := importer.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to import bundle: %w", err)
	}

	logger.Info().Int("products_imported", count).Msg("catalogue seeding complete")

	return nil
}
