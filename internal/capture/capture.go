// Package capture drives one photo-capture session: acquire the live
// feed exclusively, watch it for a barcode at a fixed interval, accept
// a manual shutter press, and hand the captured still to extraction.
// The feed is released on every exit path.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"prodtrack/internal/model"
	"prodtrack/internal/vision"
)

// ErrCameraUnavailable is returned when the live feed cannot be
// acquired (denied permission or no device). The session is over; the
// user has to dismiss and retry.
var ErrCameraUnavailable = errors.New("camera unavailable or access denied")

// DefaultPollInterval is how often the detector inspects the live feed.
const DefaultPollInterval = 300 * time.Millisecond

// Frame is a single still image taken from the live feed.
type Frame struct {
	Data     []byte
	MIMEType string
}

// Camera opens an exclusive live feed. At most one session may hold a
// feed at a time; that is the implementation's contract to keep.
type Camera interface {
	Open(ctx context.Context) (FrameSource, error)
}

// FrameSource is a live feed that can produce still frames.
type FrameSource interface {
	// Grab captures the current frame as an encoded image.
	Grab(ctx context.Context) (Frame, error)
	// Close releases the underlying device.
	Close() error
}

// Detector attempts to spot a barcode or QR region in the live feed.
// Which symbologies it supports (EAN-13, EAN-8, QR, UPC-A) is its own
// concern; a nil Detector disables auto-capture entirely.
type Detector interface {
	Detect(ctx context.Context, src FrameSource) (bool, error)
}

// Result carries the captured still and its extraction outcome.
type Result struct {
	Frame Frame
	Scan  model.ScanResult
}

// Session runs one capture from feed acquisition to extraction. All
// capture triggers funnel through a single select loop, so only one
// capture is ever in flight; a second trigger while capturing is
// dropped.
type Session struct {
	camera   Camera
	detector Detector
	analyzer vision.Analyzer
	interval time.Duration
	logger   zerolog.Logger

	shutter chan struct{}
}

// NewSession wires a capture session. detector may be nil when the
// platform offers no code detection; the manual shutter still works.
func NewSession(camera Camera, detector Detector, analyzer vision.Analyzer, interval time.Duration, logger zerolog.Logger) *Session {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Session{
		camera:   camera,
		detector: detector,
		analyzer: analyzer,
		interval: interval,
		logger:   logger.With().Str("component", "capture").Logger(),
		shutter:  make(chan struct{}, 1),
	}
}

// Shutter requests a manual capture. Safe to call from any goroutine;
// presses while a capture is already pending or in flight are no-ops.
func (s *Session) Shutter() {
	select {
	case s.shutter <- struct{}{}:
	default:
	}
}

// Run acquires the camera and blocks until a frame has been captured
// and extracted, or ctx is cancelled. Whatever the outcome, the feed is
// released before Run returns.
func (s *Session) Run(ctx context.Context) (Result, error) {
	src, err := s.camera.Open(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to acquire camera")
		return Result{}, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer src.Close()

	s.logger.Debug().
		Bool("auto_detect", s.detector != nil).
		Dur("interval", s.interval).
		Msg("live feed acquired")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()

		case <-s.shutter:
			return s.capture(ctx, src)

		case <-ticker.C:
			if s.detector == nil {
				continue
			}
			found, err := s.detector.Detect(ctx, src)
			if err != nil {
				// Per-frame detection failures are transient; keep polling.
				s.logger.Debug().Err(err).Msg("detection attempt failed")
				continue
			}
			if found {
				s.logger.Info().Msg("code detected, capturing")
				return s.capture(ctx, src)
			}
		}
	}
}

// capture grabs one still and runs extraction. Extraction follows the
// no-error contract, so the only failure mode here is the grab itself.
func (s *Session) capture(ctx context.Context, src FrameSource) (Result, error) {
	frame, err := src.Grab(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to capture frame: %w", err)
	}

	s.logger.Debug().Int("bytes", len(frame.Data)).Str("mime", frame.MIMEType).Msg("frame captured")

	return Result{
		Frame: frame,
		Scan:  s.analyzer.Analyze(ctx, frame.Data, frame.MIMEType),
	}, nil
}
