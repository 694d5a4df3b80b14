package service

import (
	"context"
	"fmt"

	"mini-shelf/internal/model"
	"mini-shelf/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// applyDraft overwrites every scalar field of p with the draft values. The
// image attachment is handled separately by the caller.
func applyDraft(p *model.Product, draft *model.ProductDraft) {
	p.Name = draft.Name
	p.Description = draft.Description
	p.Brand = draft.Brand
	p.Price = draft.Price
	p.Category = draft.Category
	p.ReleaseDate = draft.ReleaseDate
	p.Available = draft.Available
	p.StockQuantity = draft.StockQuantity
}

// GetAll retrieves every product in the catalog.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// AddProduct creates a product from the draft and the supplied image file. The
// image is required at creation time.
func (s *productService) AddProduct(ctx context.Context, draft *model.ProductDraft, imageData []byte, imageName, imageType string) (*model.Product, error) {
	if len(imageData) == 0 {
		s.logger.Warn().Str("name", draft.Name).Msg("product creation rejected: missing image file")
		return nil, model.ErrImageRequired
	}

	product := &model.Product{}
	applyDraft(product, draft)
	product.Image = &model.ImageAttachment{
		FileName: imageName,
		MimeType: imageType,
		Data:     imageData,
	}

	created, err := s.productRepo.Insert(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("name", draft.Name).Msg("failed to insert product")
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", created.ID).
		Str("name", created.Name).
		Msg("product created")

	return created, nil
}

// UpdateProduct overwrites every scalar field of an existing product with the
// draft and replaces the stored image only when new bytes are supplied. An
// update that carries no image file must leave the stored image untouched.
func (s *productService) UpdateProduct(ctx context.Context, id int64, draft *model.ProductDraft, imageData []byte, imageName, imageType string) (*model.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to fetch product for update")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if existing == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found for update")
		return nil, model.ErrProductNotFound
	}

	applyDraft(existing, draft)

	if len(imageData) > 0 {
		existing.Image = &model.ImageAttachment{
			FileName: imageName,
			MimeType: imageType,
			Data:     imageData,
		}
	} else {
		// Replace writes the full record, so the stored attachment has to be
		// re-read and carried over when the caller sent none.
		image, err := s.productRepo.GetImage(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to fetch stored image for update")
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		existing.Image = image
	}

	updated, err := s.productRepo.Replace(ctx, id, existing)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to replace product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if updated == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product no longer exists")
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().
		Int64("product_id", id).
		Bool("image_replaced", len(imageData) > 0).
		Msg("product updated")

	return updated, nil
}

// DeleteProduct removes an existing product. Deleting an unknown ID is
// reported as not found rather than a silent no-op.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to fetch product for delete")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if existing == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found for delete")
		return model.ErrProductNotFound
	}

	if err := s.productRepo.DeleteByID(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")

	return nil
}

// SearchProducts retrieves products matching the keyword.
func (s *productService) SearchProducts(ctx context.Context, keyword string) ([]model.Product, error) {
	products, err := s.productRepo.SearchByKeyword(ctx, keyword)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", keyword).Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	s.logger.Debug().
		Str("keyword", keyword).
		Int("count", len(products)).
		Msg("product search completed")

	return products, nil
}

// GetImage retrieves the stored image of a product for binary delivery.
func (s *productService) GetImage(ctx context.Context, id int64) (*model.ImageAttachment, error) {
	image, err := s.productRepo.GetImage(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product image")
		return nil, fmt.Errorf("failed to get product image: %w", err)
	}

	if image == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product image not found")
		return nil, model.ErrImageNotFound
	}

	return image, nil
}
