package service

import (
	"context"

	"mini-shelf/internal/model"
)

// ProductService defines operations for product catalog management.
type ProductService interface {
	// GetAll retrieves every product in the catalog.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// AddProduct creates a product from the draft and the supplied image file.
	// The image is required at creation time.
	AddProduct(ctx context.Context, draft *model.ProductDraft, imageData []byte, imageName, imageType string) (*model.Product, error)

	// UpdateProduct overwrites every scalar field of an existing product with
	// the draft and replaces the stored image only when new bytes are supplied.
	UpdateProduct(ctx context.Context, id int64, draft *model.ProductDraft, imageData []byte, imageName, imageType string) (*model.Product, error)

	// DeleteProduct removes an existing product.
	DeleteProduct(ctx context.Context, id int64) error

	// SearchProducts retrieves products matching the keyword.
	SearchProducts(ctx context.Context, keyword string) ([]model.Product, error)

	// GetImage retrieves the stored image of a product for binary delivery.
	GetImage(ctx context.Context, id int64) (*model.ImageAttachment, error)
}
