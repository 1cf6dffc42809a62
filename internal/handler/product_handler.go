package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"prodtrack/internal/model"
	"prodtrack/internal/service"
	"prodtrack/internal/views"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	catalog service.Catalog
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.Catalog, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests, optionally sorted by
// expiry via ?sort=asc|desc. Without a sort parameter the list keeps
// insertion order, most recent first.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()

	switch order := r.URL.Query().Get("sort"); order {
	case "":
		// keep insertion order
	case string(views.Ascending), string(views.Descending):
		products = views.SortByExpiry(products, views.Order(order))
	default:
		writeError(w, http.StatusBadRequest, "invalid sort parameter", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := productID(r.URL.Path)
	if id == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	product := h.catalog.Get(id)
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products requests: the manual entry form.
// A non-empty name is required here, at the boundary; the engine itself
// accepts whatever it is given.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Create(r.Context(), fields)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create product")
		writeError(w, http.StatusInternalServerError, "failed to create product", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests. The engine treats an
// unknown id as a benign no-op; the API maps that to 404.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := productID(r.URL.Path)
	if id == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		writeError(w, http.StatusInternalServerError, "failed to update product", h.logger)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests. Deleting an
// already-deleted product succeeds: a double submit is not an error.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := productID(r.URL.Path)
	if id == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		writeError(w, http.StatusInternalServerError, "failed to delete product", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) decodeFields(w http.ResponseWriter, r *http.Request) (model.ProductFields, bool) {
	var fields model.ProductFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return model.ProductFields{}, false
	}

	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		writeError(w, http.StatusBadRequest, model.ErrMissingName.Message, h.logger)
		return model.ProductFields{}, false
	}
	return fields, true
}

// productID extracts the trailing id from /api/products/{id}.
// Simple extraction without a routing library.
func productID(path string) string {
	const prefix = "/api/products/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(path[len(prefix):], "/")
}
