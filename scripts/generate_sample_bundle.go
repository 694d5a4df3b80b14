package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"mini-shelf/internal/model"
	"mini-shelf/internal/seed"
)

// Generates a small catalogue bundle for local development: gzipped JSON
// lines, one product per line, images embedded as base64.
func main() {
	dataDir := "data/bundles"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	records := []seed.Record{
		{
			Name:          "Smartphone",
			Description:   "Flagship phone with 120Hz display",
			Brand:         "Samsung",
			Price:         79999,
			Category:      "Electronics",
			ReleaseDate:   model.NewDate(2024, time.January, 15),
			Available:     true,
			StockQuantity: 25,
			Image: &seed.ImageRecord{
				FileName: "smartphone.png",
				MimeType: "image/png",
				Data:     samplePNG(0),
			},
		},
		{
			Name:          "Headphones",
			Description:   "Over-ear noise cancelling headphones",
			Brand:         "Sony",
			Price:         8999.50,
			Category:      "Audio",
			ReleaseDate:   model.NewDate(2024, time.March, 1),
			Available:     true,
			StockQuantity: 50,
			Image: &seed.ImageRecord{
				FileName: "headphones.png",
				MimeType: "image/png",
				Data:     samplePNG(64),
			},
		},
		{
			Name:          "Laptop",
			Description:   "14-inch ultrabook",
			Brand:         "Lenovo",
			Price:         129999,
			Category:      "Computers",
			ReleaseDate:   model.NewDate(2023, time.November, 20),
			Available:     true,
			StockQuantity: 12,
		},
		{
			Name:          "Smartwatch",
			Description:   "Fitness tracking smartwatch",
			Brand:         "Garmin",
			Price:         32999,
			Category:      "Wearables",
			ReleaseDate:   model.NewDate(2024, time.May, 10),
			Available:     true,
			StockQuantity: 18,
		},
		{
			Name:          "Coffee Maker",
			Description:   "Drip coffee maker with thermal carafe",
			Brand:         "Philips",
			Price:         6499,
			Category:      "Kitchen",
			ReleaseDate:   model.NewDate(2023, time.September, 5),
			Available:     false,
			StockQuantity: 0,
		},
	}

	filePath := filepath.Join(dataDir, "catalogue.jsonl.gz")
	if err := writeBundle(filePath, records); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(records))
	fmt.Println("\nImport it with:")
	fmt.Printf("  go run ./cmd/seed -bundle %s\n", filePath)
}

// samplePNG renders a small gradient PNG so bundles carry real image bytes.
func samplePNG(hueOffset int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{
				R: uint8(hueOffset + x*16),
				G: uint8(y * 24),
				B: 96,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Fatalf("Failed to encode sample image: %v", err)
	}

	return buf.Bytes()
}

func writeBundle(filePath string, records []seed.Record) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record %q: %w", record.Name, err)
		}
		if _, err := gzipWriter.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write record %q: %w", record.Name, err)
		}
	}

	return nil
}
