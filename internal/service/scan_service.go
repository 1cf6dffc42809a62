package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"prodtrack/internal/archive"
	"prodtrack/internal/capture"
	"prodtrack/internal/model"
	"prodtrack/internal/vision"
)

// ScanOutcome is what the scan pipeline produced: either an auto-saved
// product, or a draft the user completes manually. Partial extraction
// results pre-fill the draft.
type ScanOutcome struct {
	Saved    bool              `json:"saved"`
	Product  *model.Product    `json:"product,omitempty"`
	Draft    *model.ScanResult `json:"draft,omitempty"`
	ImageRef string            `json:"imageRef,omitempty"`
}

// ScanService orchestrates image → extraction → catalogue.
type ScanService struct {
	analyzer vision.Analyzer
	catalog  Catalog
	archive  archive.Archive // nil disables archiving
	logger   zerolog.Logger
}

// NewScanService creates a new scan service.
func NewScanService(analyzer vision.Analyzer, catalog Catalog, archive archive.Archive, logger zerolog.Logger) *ScanService {
	return &ScanService{
		analyzer: analyzer,
		catalog:  catalog,
		archive:  archive,
		logger:   logger.With().Str("service", "scan").Logger(),
	}
}

// ProcessImage runs extraction on the image and applies the auto-save
// rule: a result with both name and expiry date is saved immediately,
// anything less becomes a manual-entry draft.
func (s *ScanService) ProcessImage(ctx context.Context, image []byte, mimeType string) (*ScanOutcome, error) {
	if len(image) == 0 {
		return nil, model.ErrInvalidImage
	}

	scan := s.analyzer.Analyze(ctx, image, mimeType)
	return s.resolve(ctx, image, mimeType, scan)
}

// ScanFromCamera drives a capture session to completion and feeds the
// captured frame through the same decision as an uploaded image.
func (s *ScanService) ScanFromCamera(ctx context.Context, session *capture.Session) (*ScanOutcome, error) {
	res, err := session.Run(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, res.Frame.Data, res.Frame.MIMEType, res.Scan)
}

func (s *ScanService) resolve(ctx context.Context, image []byte, mimeType string, scan model.ScanResult) (*ScanOutcome, error) {
	outcome := &ScanOutcome{
		ImageRef: s.archiveImage(ctx, image, mimeType),
	}

	if scan.Complete() {
		product, err := s.catalog.Create(ctx, model.ProductFields{
			Name:       scan.Name,
			Code:       scan.Code,
			ExpiryDate: scan.ExpiryDate,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save scanned product: %w", err)
		}

		outcome.Saved = true
		outcome.Product = &product
		s.logger.Info().
			Str("product_id", product.ID).
			Str("name", product.Name).
			Msg("product auto-saved from scan")
		return outcome, nil
	}

	outcome.Draft = &scan
	s.logger.Info().
		Bool("has_name", scan.Name != "").
		Bool("has_expiry", scan.ExpiryDate != "").
		Msg("scan incomplete, manual entry required")
	return outcome, nil
}

// archiveImage is best effort: a failed or disabled archive never
// blocks the scan flow.
func (s *ScanService) archiveImage(ctx context.Context, image []byte, mimeType string) string {
	if s.archive == nil {
		return ""
	}

	key := fmt.Sprintf("scans/%s%s", uuid.NewString(), extensionFor(mimeType))
	location, err := s.archive.Put(ctx, key, image, mimeType)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to archive scan image")
		return ""
	}
	return location
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
