package repository

import (
	"context"

	"mini-shelf/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves every product, ordered by ID. Image bytes are not
	// loaded.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil) when no
	// such product exists.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Insert persists a new product, including its image attachment, and
	// returns it with the generated ID.
	Insert(ctx context.Context, product *model.Product) (*model.Product, error)

	// Replace overwrites the full record stored under id, including the image
	// columns. Returns (nil, nil) when no such product exists.
	Replace(ctx context.Context, id int64, product *model.Product) (*model.Product, error)

	// DeleteByID removes the product if present. Deleting an absent ID is a
	// no-op.
	DeleteByID(ctx context.Context, id int64) error

	// SearchByKeyword retrieves products whose name, description, brand or
	// category contains the keyword, case-insensitively. An empty keyword
	// matches every product.
	SearchByKeyword(ctx context.Context, keyword string) ([]model.Product, error)

	// GetImage retrieves the image attachment of a product. Returns (nil, nil)
	// when the product does not exist or has no stored image.
	GetImage(ctx context.Context, id int64) (*model.ImageAttachment, error)

	// ImportProducts bulk-inserts products in a single transaction and returns
	// the number of rows written.
	ImportProducts(ctx context.Context, products []model.Product) (int, error)
}
