package seed

import (
	"context"
	"fmt"

	"mini-shelf/internal/model"
	"mini-shelf/internal/repository"

	"github.com/rs/zerolog"
)

// Importer bulk-inserts bundle records into the catalogue.
type Importer struct {
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewImporter creates a new bundle importer.
func NewImporter(repo repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		repo:   repo,
		logger: logger.With().Str("component", "bundle-importer").Logger(),
	}
}

// Run converts the records into products and writes them in a single
// transaction. It returns the number of inserted rows.
func (i *Importer) Run(ctx context.Context, records []Record) (int, error) {
	if len(records) == 0 {
		i.logger.Info().Msg("bundle is empty, nothing to import")
		return 0, nil
	}

	products := make([]model.Product, 0, len(records))
	for idx := range records {
		products = append(products, records[idx].ToProduct())
	}

	count, err := i.repo.ImportProducts(ctx, products)
	if err != nil {
		i.logger.Error().Err(err).Msg("bundle import failed")
		return 0, fmt.Errorf("bundle import failed: %w", err)
	}

	i.logger.Info().Int("count", count).Msg("bundle imported")

	return count, nil
}
