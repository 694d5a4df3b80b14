package repository

import (
	"context"
	"fmt"

	"mini-shelf/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// productColumns is the select list scanProduct expects. image_data is not
// part of it; the blob is only ever fetched by GetImage.
const productColumns = `id, name, description, brand, price, category, release_date, available, stock_quantity, image_name, image_type, created_at`

// scanProduct reads one row matching productColumns. Image name and type are
// nullable; a row with neither yields a product without an attachment.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var imageName, imageType *string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Brand,
		&p.Price,
		&p.Category,
		&p.ReleaseDate.Time,
		&p.Available,
		&p.StockQuantity,
		&imageName,
		&imageType,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imageName != nil || imageType != nil {
		p.Image = &model.ImageAttachment{}
		if imageName != nil {
			p.Image.FileName = *imageName
		}
		if imageType != nil {
			p.Image.MimeType = *imageType
		}
	}

	return &p, nil
}

// imageArgs converts an optional attachment into the three image column
// arguments. A nil attachment writes NULL into all three columns.
func imageArgs(image *model.ImageAttachment) (name, mimeType *string, data []byte) {
	if image == nil {
		return nil, nil, nil
	}
	return &image.FileName, &image.MimeType, image.Data
}

// GetAll retrieves every product, ordered by ID.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// Insert persists a new product and returns it with the generated ID.
func (r *productRepository) Insert(ctx context.Context, product *model.Product) (*model.Product, error) {
	query := `
		INSERT INTO products (name, description, brand, price, category, release_date, available, stock_quantity, image_name, image_type, image_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	imageName, imageType, imageData := imageArgs(product.Image)

	err := r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Brand,
		product.Price,
		product.Category,
		product.ReleaseDate.Time,
		product.Available,
		product.StockQuantity,
		imageName,
		imageType,
		imageData,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.Debug().
		Int64("product_id", product.ID).
		Str("name", product.Name).
		Msg("product inserted")

	return product, nil
}

// Replace overwrites the full record stored under id, including the image
// columns.
func (r *productRepository) Replace(ctx context.Context, id int64, product *model.Product) (*model.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, brand = $3, price = $4, category = $5,
			release_date = $6, available = $7, stock_quantity = $8,
			image_name = $9, image_type = $10, image_data = $11
		WHERE id = $12
		RETURNING id, created_at
	`

	imageName, imageType, imageData := imageArgs(product.Image)

	err := r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Brand,
		product.Price,
		product.Category,
		product.ReleaseDate.Time,
		product.Available,
		product.StockQuantity,
		imageName,
		imageType,
		imageData,
		id,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found for replace")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to replace product")
		return nil, fmt.Errorf("failed to replace product: %w", err)
	}

	r.logger.Debug().Int64("product_id", id).Msg("product replaced")

	return product, nil
}

// DeleteByID removes the product if present. Deleting an absent ID is a no-op.
func (r *productRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	r.logger.Debug().
		Int64("product_id", id).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("product delete executed")

	return nil
}

// SearchByKeyword retrieves products whose name, description, brand or
// category contains the keyword, case-insensitively. An empty keyword matches
// every product.
func (r *productRepository) SearchByKeyword(ctx context.Context, keyword string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE '%' || $1 || '%'
			OR description ILIKE '%' || $1 || '%'
			OR brand ILIKE '%' || $1 || '%'
			OR category ILIKE '%' || $1 || '%'
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, keyword)
	if err != nil {
		r.logger.Error().Err(err).Str("keyword", keyword).Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetImage retrieves the image attachment of a product. A product that exists
// but has no stored bytes is reported the same way as an absent product.
func (r *productRepository) GetImage(ctx context.Context, id int64) (*model.ImageAttachment, error) {
	query := `
		SELECT image_name, image_type, image_data
		FROM products
		WHERE id = $1
	`

	var imageName, imageType *string
	var imageData []byte

	err := r.pool.QueryRow(ctx, query, id).Scan(&imageName, &imageType, &imageData)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product image")
		return nil, fmt.Errorf("failed to query product image: %w", err)
	}

	if len(imageData) == 0 {
		r.logger.Debug().Int64("product_id", id).Msg("product has no stored image")
		return nil, nil
	}

	image := &model.ImageAttachment{Data: imageData}
	if imageName != nil {
		image.FileName = *imageName
	}
	if imageType != nil {
		image.MimeType = *imageType
	}

	return image, nil
}

// ImportProducts bulk-inserts products in a single transaction and returns the
// number of rows written.
func (r *productRepository) ImportProducts(ctx context.Context, products []model.Product) (count int, err error) {
	if len(products) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO products (name, description, brand, price, category, release_date, available, stock_quantity, image_name, image_type, image_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	batch := &pgx.Batch{}
	for i := range products {
		p := &products[i]
		imageName, imageType, imageData := imageArgs(p.Image)
		batch.Queue(query,
			p.Name,
			p.Description,
			p.Brand,
			p.Price,
			p.Category,
			p.ReleaseDate.Time,
			p.Available,
			p.StockQuantity,
			imageName,
			imageType,
			imageData,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < len(products); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Error().
				Err(err).
				Str("name", products[i].Name).
				Msg("failed to import product")
			return 0, fmt.Errorf("failed to import product %q: %w", products[i].Name, err)
		}
	}

	// The batch holds the connection until closed; commit must come after.
	if err := results.Close(); err != nil {
		r.logger.Error().Err(err).Msg("failed to close import batch")
		return 0, fmt.Errorf("failed to close import batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit import transaction")
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	r.logger.Info().Int("count", len(products)).Msg("products imported")

	return len(products), nil
}
