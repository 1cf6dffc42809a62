package router

import (
	"net/http"

	"github.com/rs/zerolog"

	"prodtrack/internal/handler"
	"prodtrack/internal/middleware"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	scanHandler *handler.ScanHandler,
	viewsHandler *handler.ViewsHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product collection and item routes share a dispatcher; item
	// routes are told apart by their longer path.
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		itemPath := r.URL.Path != "/api/products" && r.URL.Path != "/api/products/"

		switch {
		case r.Method == http.MethodGet && !itemPath:
			productHandler.GetAll(w, r)
		case r.Method == http.MethodPost && !itemPath:
			productHandler.Create(w, r)
		case r.Method == http.MethodGet:
			productHandler.GetByID(w, r)
		case r.Method == http.MethodPut:
			productHandler.Update(w, r)
		case r.Method == http.MethodDelete:
			productHandler.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	mux.HandleFunc("/api/scan", scanHandler.Scan)
	mux.HandleFunc("/api/dashboard", viewsHandler.Dashboard)
	mux.HandleFunc("/api/events", viewsHandler.Events)
	mux.HandleFunc("/api/calendar", viewsHandler.Calendar)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
