package seed

import (
	"context"

	"mini-shelf/internal/model"

	"github.com/go-playground/validator/v10"
)

// Loader defines the interface for loading catalogue bundles.
type Loader interface {
	// Load reads a gzipped JSON-lines bundle and returns its records.
	Load(ctx context.Context, path string) ([]Record, error)
}

// Record is one product entry in a catalogue bundle: a single JSON object per
// line with an optional embedded image.
type Record struct {
	Name          string       `json:"name" validate:"required"`
	Description   string       `json:"description"`
	Brand         string       `json:"brand"`
	Price         float64      `json:"price"`
	Category      string       `json:"category"`
	ReleaseDate   model.Date   `json:"releaseDate"`
	Available     bool         `json:"available"`
	StockQuantity int          `json:"stockQuantity"`
	Image         *ImageRecord `json:"image,omitempty"`
}

// ImageRecord is the embedded image of a bundle record. Data is base64 in the
// JSON and decoded bytes in memory. An image is optional, but a present one
// must be complete.
type ImageRecord struct {
	FileName string `json:"fileName" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	Data     []byte `json:"data" validate:"required"`
}

// validate rejects malformed bundle records before they reach the database.
// The HTTP API stays permissive; bundles fail fast instead.
var validate = validator.New()

// ToProduct converts the record into a catalogue product.
func (r *Record) ToProduct() model.Product {
	p := model.Product{
		Name:          r.Name,
		Description:   r.Description,
		Brand:         r.Brand,
		Price:         r.Price,
		Category:      r.Category,
		ReleaseDate:   r.ReleaseDate,
		Available:     r.Available,
		StockQuantity: r.StockQuantity,
	}

	if r.Image != nil {
		p.Image = &model.ImageAttachment{
			FileName: r.Image.FileName,
			MimeType: r.Image.MimeType,
			Data:     r.Image.Data,
		}
	}

	return p
}
