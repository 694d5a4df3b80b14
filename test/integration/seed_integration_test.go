package integration

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mini-shelf/internal/model"
	"mini-shelf/internal/repository"
	"mini-shelf/internal/seed"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBundle writes records to a gzipped JSON-lines bundle in a temp dir.
func writeBundle(t *testing.T, records []seed.Record) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), "bundle.jsonl.gz")

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, record := range records {
		line, err := json.Marshal(record)
		require.NoError(t, err)
		_, err = gzipWriter.Write(append(line, '\n'))
		require.NoError(t, err)
	}

	return filePath
}

func TestSeedPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)
	ctx := context.Background()

	t.Run("Bundle records land in the catalogue with images intact", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		records := []seed.Record{
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
				Name:  "Earbuds",
				Brand: "Bose",
				Price: 12999,
				Image: &seed.ImageRecord{
					FileName: "earbuds.jpg",
					MimeType: "image/jpeg",
					Data:     []byte("earbuds-image-bytes"),
				},
			},
		}

		bundlePath := writeBundle(t, records)

		loader := seed.NewFileLoader(logger)
		loaded, err := loader.Load(ctx, bundlePath)
		require.NoError(t, err)

		importer := seed.NewImporter(repo, logger)
		count, err := importer.Run(ctx, loaded)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		products, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Smartwatch", products[0].Name)
		assert.Equal(t, 32999.0, products[0].Price)
		assert.Equal(t, "2024-05-10", products[0].ReleaseDate.Format("2006-01-02"))

		image, err := repo.GetImage(ctx, products[1].ID)
		require.NoError(t, err)
		require.NotNil(t, image)
		assert.Equal(t, "earbuds.jpg", image.FileName)
		assert.Equal(t, "image/jpeg", image.MimeType)
		assert.Equal(t, []byte("earbuds-image-bytes"), image.Data)
	})

	t.Run("Seeded products are served by the API", func(t *testing.T) {
		server := setupTestServer(t, testDB)

		req := httptest.NewRequest(http.MethodGet, "/api/products/search?keyword=earbuds", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		require.Len(t, products, 1)
		assert.Equal(t, "Earbuds", products[0].Name)
		assert.Equal(t, "Bose", products[0].Brand)
	})
}
