package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"prodtrack/internal/service"
	"prodtrack/internal/views"
)

// ViewsHandler serves the derived read-only views: dashboard stats, the
// event projection and the calendar month grid.
type ViewsHandler struct {
	catalog service.Catalog
	logger  zerolog.Logger
	now     func() time.Time
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(catalog service.Catalog, logger zerolog.Logger) *ViewsHandler {
	return &ViewsHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "views").Logger(),
		now:     time.Now,
	}
}

// Dashboard handles GET /api/dashboard requests.
func (h *ViewsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, views.Dashboard(h.catalog.Products(), h.now()))
}

// Events handles GET /api/events requests.
func (h *ViewsHandler) Events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Events())
}

// Calendar handles GET /api/calendar?year=YYYY&month=M requests.
// Missing parameters default to the current month.
func (h *ViewsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	now := h.now()
	year := now.Year()
	month := int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year parameter", h.logger)
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusBadRequest, "invalid month parameter", h.logger)
			return
		}
		month = parsed
	}

	writeJSON(w, http.StatusOK, views.MonthGrid(h.catalog.Events(), year, time.Month(month)))
}
