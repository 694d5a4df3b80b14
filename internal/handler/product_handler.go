package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"mini-shelf/internal/model"
	"mini-shelf/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxUploadSize is the in-memory threshold for multipart parsing; larger
// uploads spill to temporary files.
const maxUploadSize = 10 << 20

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// productForm is the decoded multipart payload of create and update requests.
type productForm struct {
	draft     *model.ProductDraft
	imageData []byte
	imageName string
	imageType string
}

// parseProductForm decodes a multipart body carrying a "product" JSON part
// and an optional "imageFile" file part. A missing file leaves imageData nil;
// whether that is acceptable is the service's call.
func parseProductForm(r *http.Request) (*productForm, *model.DomainError) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "request body must be multipart/form-data")
	}

	raw := r.FormValue("product")
	if raw == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "product part is required")
	}

	var draft model.ProductDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "product part is not valid JSON")
	}

	form := &productForm{draft: &draft}

	file, header, err := r.FormFile("imageFile")
	if err != nil {
		if err == http.ErrMissingFile {
			return form, nil
		}
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "imageFile part is unreadable")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "failed to read imageFile part")
	}

	form.imageData = data
	form.imageName = header.Filename
	form.imageType = header.Header.Get("Content-Type")

	return form, nil
}

// parseProductID extracts the {id} route parameter.
func parseProductID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeServiceError maps service errors onto HTTP statuses.
func (h *ProductHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := model.ErrCodeInternalError
	message := "an unexpected error occurred"

	switch err {
	case model.ErrProductNotFound:
		status = http.StatusNotFound
		code = model.ErrCodeProductNotFound
		message = err.Error()
	case model.ErrImageNotFound:
		status = http.StatusNotFound
		code = model.ErrCodeImageNotFound
		message = err.Error()
	case model.ErrImageRequired:
		status = http.StatusBadRequest
		code = model.ErrCodeImageRequired
		message = err.Error()
	}

	writeError(w, r, status, code, message, h.logger)
}

// GetAll handles GET /api/products.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/product/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidProductID, "product ID must be an integer", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// GetImage handles GET /api/product/{id}/image, serving the stored bytes with
// the stored MIME type.
func (h *ProductHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidProductID, "product ID must be an integer", h.logger)
		return
	}

	image, err := h.service.GetImage(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	contentType := image.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image.Data); err != nil {
		h.logger.Error().Err(err).Int64("product_id", id).Msg("failed to write image response")
	}
}

// Create handles POST /api/product. The multipart body carries a "product"
// JSON part and a required "imageFile" part.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, derr := parseProductForm(r)
	if derr != nil {
		writeError(w, r, http.StatusBadRequest, derr.Code, derr.Message, h.logger)
		return
	}

	product, err := h.service.AddProduct(r.Context(), form.draft, form.imageData, form.imageName, form.imageType)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/product/{id}. The "imageFile" part is optional;
// when absent the stored image is preserved.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidProductID, "product ID must be an integer", h.logger)
		return
	}

	form, derr := parseProductForm(r)
	if derr != nil {
		writeError(w, r, http.StatusBadRequest, derr.Code, derr.Message, h.logger)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, form.draft, form.imageData, form.imageName, form.imageType)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "product updated successfully",
		Product: product,
	})
}

// Delete handles DELETE /api/product/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidProductID, "product ID must be an integer", h.logger)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "product deleted successfully"})
}

// Search handles GET /api/products/search. An empty keyword matches every
// product.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	products, err := h.service.SearchProducts(r.Context(), keyword)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}
