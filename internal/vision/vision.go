// Package vision extracts structured product fields from captured
// images via an external AI model. The contract deliberately has no
// error path: whatever goes wrong, callers receive a (possibly empty)
// ScanResult and decide between auto-save and manual entry from field
// completeness alone.
package vision

import (
	"context"

	"github.com/rs/zerolog"

	"prodtrack/internal/model"
)

// Analyzer extracts product fields from an encoded image.
type Analyzer interface {
	// Analyze never fails; any extraction problem yields the zero
	// ScanResult.
	Analyze(ctx context.Context, image []byte, mimeType string) model.ScanResult
}

// disabledAnalyzer is used when no API credentials are configured. It
// routes every scan straight to manual entry.
type disabledAnalyzer struct {
	logger zerolog.Logger
}

// NewDisabled returns an Analyzer that always reports an empty result.
func NewDisabled(logger zerolog.Logger) Analyzer {
	return &disabledAnalyzer{
		logger: logger.With().Str("component", "vision").Logger(),
	}
}

func (d *disabledAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) model.ScanResult {
	d.logger.Debug().Msg("extraction disabled, returning empty result")
	return model.ScanResult{}
}
