package model

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component. It marshals to and
// from "YYYY-MM-DD" JSON strings.
type Date struct {
	time.Time
}

// NewDate builds a Date from a year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string. Null and empty values leave the
// date at its zero value.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// ImageAttachment is the image file stored alongside a product. The raw bytes
// are never part of a product's JSON representation; they are served only by
// the dedicated image endpoint.
type ImageAttachment struct {
	FileName string `json:"fileName" db:"image_name"`
	MimeType string `json:"mimeType" db:"image_type"`
	Data     []byte `json:"-" db:"image_data"`
}

// Product represents a product in the catalogue.
type Product struct {
	ID            int64            `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	Description   string           `json:"description" db:"description"`
	Brand         string           `json:"brand" db:"brand"`
	Price         float64          `json:"price" db:"price"`
	Category      string           `json:"category" db:"category"`
	ReleaseDate   Date             `json:"releaseDate" db:"release_date"`
	Available     bool             `json:"available" db:"available"`
	StockQuantity int              `json:"stockQuantity" db:"stock_quantity"`
	Image         *ImageAttachment `json:"image,omitempty"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
}

// ProductDraft carries the writable scalar fields supplied on create and
// update requests. Values are applied as-is; the API does not constrain price
// or stock quantity.
type ProductDraft struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Brand         string  `json:"brand"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	ReleaseDate   Date    `json:"releaseDate"`
	Available     bool    `json:"available"`
	StockQuantity int     `json:"stockQuantity"`
}
