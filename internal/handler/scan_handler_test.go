package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prodtrack/internal/model"
	"prodtrack/internal/service"
)

// MockScanner is a mock implementation of service.Scanner.
type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) ProcessImage(ctx context.Context, image []byte, mimeType string) (*service.ScanOutcome, error) {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanOutcome), args.Error(1)
}

var rawImage = []byte{0xff, 0xd8, 0xff, 0xe0}

func scanBody(image []byte, mimeType string) string {
	return `{"image":"` + base64.StdEncoding.EncodeToString(image) + `","mimeType":"` + mimeType + `"}`
}

func TestScanHandler_AutoSave(t *testing.T) {
	scanner := new(MockScanner)
	outcome := &service.ScanOutcome{
		Saved:   true,
		Product: &model.Product{ID: "P1", Name: "Milk", ExpiryDate: "2024-01-10"},
	}
	scanner.On("ProcessImage", mock.Anything, rawImage, "image/jpeg").Return(outcome, nil)

	h := NewScanHandler(scanner, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(scanBody(rawImage, "image/jpeg")))
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got service.ScanOutcome
	require.NoError(t, decodeBody(rec, &got))
	assert.True(t, got.Saved)
	assert.Equal(t, "P1", got.Product.ID)
}

func TestScanHandler_IncompleteScanReturnsDraft(t *testing.T) {
	scanner := new(MockScanner)
	outcome := &service.ScanOutcome{
		Draft: &model.ScanResult{Name: "Milk"},
	}
	scanner.On("ProcessImage", mock.Anything, rawImage, "image/jpeg").Return(outcome, nil)

	h := NewScanHandler(scanner, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(scanBody(rawImage, "image/jpeg")))
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	// Extraction trouble is not an HTTP error: the client gets a draft.
	assert.Equal(t, http.StatusOK, rec.Code)

	var got service.ScanOutcome
	require.NoError(t, decodeBody(rec, &got))
	assert.False(t, got.Saved)
	require.NotNil(t, got.Draft)
	assert.Equal(t, "Milk", got.Draft.Name)
}

func TestScanHandler_DataURLHeaderStripped(t *testing.T) {
	scanner := new(MockScanner)
	scanner.On("ProcessImage", mock.Anything, rawImage, "image/png").
		Return(&service.ScanOutcome{Draft: &model.ScanResult{}}, nil)

	h := NewScanHandler(scanner, zerolog.Nop())
	body := `{"image":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(rawImage) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	scanner.AssertCalled(t, "ProcessImage", mock.Anything, rawImage, "image/png")
}

func TestScanHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"Method not allowed", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"Invalid JSON", http.MethodPost, `{"image":`, http.StatusBadRequest},
		{"Invalid base64", http.MethodPost, `{"image":"not base64!!"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := new(MockScanner)
			h := NewScanHandler(scanner, zerolog.Nop())

			req := httptest.NewRequest(tt.method, "/api/scan", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Scan(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			scanner.AssertNotCalled(t, "ProcessImage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestScanHandler_EmptyImageIsDomainError(t *testing.T) {
	scanner := new(MockScanner)
	scanner.On("ProcessImage", mock.Anything, []byte{}, "image/jpeg").
		Return(nil, model.ErrInvalidImage)

	h := NewScanHandler(scanner, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"image":"","mimeType":"image/jpeg"}`))
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandler_PipelineFailure(t *testing.T) {
	scanner := new(MockScanner)
	scanner.On("ProcessImage", mock.Anything, rawImage, "image/jpeg").
		Return(nil, errors.New("store write failed"))

	h := NewScanHandler(scanner, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(scanBody(rawImage, "image/jpeg")))
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
