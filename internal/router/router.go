package router

import (
	"net/http"

	"mini-shelf/internal/handler"
	"mini-shelf/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(productHandler *handler.ProductHandler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware in execution order: Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.GetAll)
		r.Get("/products/search", productHandler.Search)

		r.Post("/product", productHandler.Create)
		r.Route("/product/{id}", func(r chi.Router) {
			r.Get("/", productHandler.GetByID)
			r.Put("/", productHandler.Update)
			r.Delete("/", productHandler.Delete)
			r.Get("/image", productHandler.GetImage)
		})
	})

	return r
}
