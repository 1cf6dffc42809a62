package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"prodtrack/internal/model"
	"prodtrack/internal/service"
)

// maxScanBody caps the scan upload size; a phone camera JPEG stays well
// under this.
const maxScanBody = 10 << 20

// ScanHandler handles scan-related HTTP requests.
type ScanHandler struct {
	scanner service.Scanner
	logger  zerolog.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(scanner service.Scanner, logger zerolog.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: scanner,
		logger:  logger.With().Str("handler", "scan").Logger(),
	}
}

type scanRequest struct {
	// Image is base64, optionally wrapped as a data: URL the way
	// canvas.toDataURL produces it.
	Image    string `json:"image"`
	MIMEType string `json:"mimeType"`
}

// Scan handles POST /api/scan: run the captured image through
// extraction and either auto-save (201) or return a manual-entry draft
// (200). Extraction failure is not an HTTP error; it surfaces as an
// empty draft.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScanBody)

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	image, mimeType, err := decodeImage(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is not valid base64", h.logger)
		return
	}

	outcome, err := h.scanner.ProcessImage(r.Context(), image, mimeType)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeError(w, http.StatusBadRequest, domainErr.Message, h.logger)
			return
		}
		h.logger.Error().Err(err).Msg("scan pipeline failed")
		writeError(w, http.StatusInternalServerError, "failed to process scan", h.logger)
		return
	}

	status := http.StatusOK
	if outcome.Saved {
		status = http.StatusCreated
	}
	writeJSON(w, status, outcome)
}

// decodeImage unwraps an optional data-URL header and decodes the
// payload. The header's MIME type wins over the request field.
func decodeImage(req scanRequest) ([]byte, string, error) {
	payload := req.Image
	mimeType := req.MIMEType

	if strings.HasPrefix(payload, "data:") {
		header, rest, found := strings.Cut(payload, ",")
		if found {
			payload = rest
			header = strings.TrimPrefix(header, "data:")
			if mt, _, _ := strings.Cut(header, ";"); mt != "" {
				mimeType = mt
			}
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}
