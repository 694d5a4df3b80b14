package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"mini-shelf/internal/handler"
	"mini-shelf/internal/model"
	"mini-shelf/internal/repository"
	"mini-shelf/internal/router"
	"mini-shelf/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headphonesJSON = `{"name":"Headphones","description":"Over-ear noise cancelling headphones","brand":"Sony","price":8999.50,"category":"Audio","releaseDate":"2024-03-01","available":true,"stockQuantity":50}`

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	productService := service.NewProductService(productRepo, logger)
	productHandler := handler.NewProductHandler(productService, logger)

	return router.New(productHandler, logger)
}

// multipartProductBody builds a multipart request body with a product part
// and, when imageData is not nil, an imageFile part with its own content type.
func multipartProductBody(t *testing.T, productJSON, imageName, imageType string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	require.NoError(t, mw.WriteField("product", productJSON))

	if imageData != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="imageFile"; filename="%s"`, imageName))
		header.Set("Content-Type", imageType)

		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return buf, mw.FormDataContentType()
}

// createProduct adds a product through the API and returns the created record.
func createProduct(t *testing.T, server http.Handler, productJSON, imageName, imageType string, imageData []byte) model.Product {
	t.Helper()

	body, contentType := multipartProductBody(t, productJSON, imageName, imageType, imageData)

	req := httptest.NewRequest(http.MethodPost, "/api/product", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "create failed: %s", w.Body.String())

	var product model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
	require.Greater(t, product.ID, int64(0))

	return product
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("POST /api/product creates a product with image", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		product := createProduct(t, server, headphonesJSON, "headphones.jpg", "image/jpeg", []byte("headphone-image-bytes"))

		assert.Equal(t, "Headphones", product.Name)
		assert.Equal(t, "Sony", product.Brand)
		assert.Equal(t, 8999.50, product.Price)
		assert.Equal(t, "2024-03-01", product.ReleaseDate.Format("2006-01-02"))
		require.NotNil(t, product.Image)
		assert.Equal(t, "headphones.jpg", product.Image.FileName)
		assert.Equal(t, "image/jpeg", product.Image.MimeType)
	})

	t.Run("GET /api/product/{id} returns the stored product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		created := createProduct(t, server, headphonesJSON, "headphones.jpg", "image/jpeg", []byte("headphone-image-bytes"))

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/product/%d", created.ID), nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, created.ID, product.ID)
		assert.Equal(t, "Headphones", product.Name)
		assert.Equal(t, 8999.50, product.Price)
		assert.Equal(t, 50, product.StockQuantity)
	})

	t.Run("GET /api/product/{id}/image serves the exact stored bytes", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		created := createProduct(t, server, headphonesJSON, "headphones.jpg", "image/jpeg", []byte("headphone-image-bytes"))

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/product/%d/image", created.ID), nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, []byte("headphone-image-bytes"), w.Body.Bytes())
	})

	t.Run("GET /api/products returns every product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 3)
	})

	t.Run("GET /api/product/{id} for unknown product returns 404 envelope", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/product/999999", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, "PRODUCT_NOT_FOUND", errResp.Error)
		assert.NotEmpty(t, errResp.CorrelationID)
	})

	t.Run("POST /api/product without image returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		body, contentType := multipartProductBody(t, headphonesJSON, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/product", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, "IMAGE_REQUIRED", errResp.Error)
	})
}

func TestProductAPI_UpdateFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	const updatedJSON = `{"name":"Headphones Mk II","description":"Updated over-ear headphones","brand":"Sony","price":7999.25,"category":"Audio","releaseDate":"2024-06-01","available":true,"stockQuantity":40}`

	t.Run("PUT without image overwrites scalars and keeps the stored image", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		created := createProduct(t, server, headphonesJSON, "headphones.jpg", "image/jpeg", []byte("original-image-bytes"))

		body, contentType := multipartProductBody(t, updatedJSON, "", "", nil)
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/product/%d", created.ID), body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp handler.MessageResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.NotNil(t, resp.Product)
		assert.Equal(t, "Headphones Mk II", resp.Product.Name)
		assert.Equal(t, 7999.25, resp.Product.Price)
		require.NotNil(t, resp.Product.Image)
		assert.Equal(t, "headphones.jpg", resp.Product.Image.FileName)

		// The stored image must survive an image-less update
		imageReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/product/%d/image", created.ID), nil)
		imageW := httptest.NewRecorder()
		server.ServeHTTP(imageW, imageReq)

		assert.Equal(t, http.StatusOK, imageW.Code)
		assert.Equal(t, "image/jpeg", imageW.Header().Get("Content-Type"))
		assert.Equal(t, []byte("original-image-bytes"), imageW.Body.Bytes())
	})

	t.Run("PUT with new image replaces the stored image", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		created := createProduct(t, server, headphonesJSON, "headphones.jpg", "image/jpeg", []byte("original-image-bytes"))

		body, contentType := multipartProductBody(t, updatedJSON, "headphones-v2.png", "image/png", []byte("replacement-image-bytes"))
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/product/%d", created.ID), body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		imageReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/product/%d/image", created.ID), nil)
		imageW := httptest.NewRecorder()
		server.ServeHTTP(imageW, imageReq)

		assert.Equal(t, http.StatusOK, imageW.Code)
		assert.Equal(t, "image/png", imageW.Header().Get("Content-Type"))
		assert.Equal(t, []byte("replacement-image-bytes"), imageW.Body.Bytes())
	})

	t.Run("PUT for unknown product returns 404 and changes nothing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		body, contentType := multipartProductBody(t, updatedJSON, "", "", nil)
		req := httptest.NewRequest(http.MethodPut, "/api/product/999999", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, "PRODUCT_NOT_FOUND", errResp.Error)

		listReq := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		listW := httptest.NewRecorder()
		server.ServeHTTP(listW, listReq)

		var products []model.Product
		require.NoError(t, json.NewDecoder(listW.Body).Decode(&products))
		assert.Len(t, products, 3)
	})
}

func TestProductAPI_DeleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("DELETE removes the product and repeat delete returns 404", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		created := createProduct(t, server, headphonesJSON, "headphones.jpg", "image/jpeg", []byte("headphone-image-bytes"))

		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/product/%d", created.ID), nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp handler.MessageResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "product deleted successfully", resp.Message)

		getReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/product/%d", created.ID), nil)
		getW := httptest.NewRecorder()
		server.ServeHTTP(getW, getReq)
		assert.Equal(t, http.StatusNotFound, getW.Code)

		// Deleting an already removed product reports not found
		repeatReq := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/product/%d", created.ID), nil)
		repeatW := httptest.NewRecorder()
		server.ServeHTTP(repeatW, repeatReq)
		assert.Equal(t, http.StatusNotFound, repeatW.Code)
	})
}

func TestProductAPI_SearchFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	search := func(t *testing.T, keyword string) []model.Product {
		t.Helper()

		req := httptest.NewRequest(http.MethodGet, "/api/products/search?keyword="+keyword, nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		return products
	}

	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	t.Run("Keyword matches name case-insensitively", func(t *testing.T) {
		lower := search(t, "phone")
		upper := search(t, "PHONE")

		require.Len(t, lower, 2)
		assert.Equal(t, "Smartphone", lower[0].Name)
		assert.Equal(t, "Headphones", lower[1].Name)
		assert.Equal(t, len(lower), len(upper))
	})

	t.Run("Keyword matches description", func(t *testing.T) {
		products := search(t, "oak")

		require.Len(t, products, 1)
		assert.Equal(t, "Dining Table", products[0].Name)
	})

	t.Run("Missing keyword matches everything", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 3)
	})

	t.Run("No matches returns an empty array", func(t *testing.T) {
		products := search(t, "xyz-nomatch")

		assert.Len(t, products, 0)
		assert.NotNil(t, products)
	})
}

func TestHealthAndCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /health returns 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})

	t.Run("Responses echo the inbound request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "integration-test-42")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, "integration-test-42", w.Header().Get("X-Request-ID"))
	})
}
