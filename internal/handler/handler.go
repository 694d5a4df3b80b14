package handler

import (
	"encoding/json"
	"net/http"

	"mini-shelf/internal/middleware"
	"mini-shelf/internal/model"

	"github.com/rs/zerolog"
)

// MessageResponse confirms a mutating operation. Product is set only on
// update responses.
type MessageResponse struct {
	Message string         `json:"message"`
	Product *model.Product `json:"product,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already sent; nothing more can be done here
		return
	}
}

// writeError writes a standardised error response. The request ID travels
// back as correlationId so client reports can be matched to the logs.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}
