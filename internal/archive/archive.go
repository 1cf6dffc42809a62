// Package archive keeps best-effort copies of captured product images
// so a scan can be reviewed later. Archiving is never on the critical
// path: callers log failures and move on.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Archive stores captured product images.
type Archive interface {
	// Put stores data under key and returns the stored location.
	Put(ctx context.Context, key string, data []byte, mimeType string) (string, error)
}

// dirArchive implements Archive on the local file system.
type dirArchive struct {
	dir    string
	logger zerolog.Logger
}

// NewDirArchive creates an archive rooted at dir, creating it when
// missing.
func NewDirArchive(dir string, logger zerolog.Logger) (Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", dir, err)
	}
	return &dirArchive{
		dir:    dir,
		logger: logger.With().Str("component", "archive").Logger(),
	}, nil
}

// Put writes the image beneath the archive root.
func (a *dirArchive) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(a.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive subdirectory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archived image %s: %w", path, err)
	}

	a.logger.Debug().
		Str("path", path).
		Str("mime", mimeType).
		Int("bytes", len(data)).
		Msg("image archived")

	return path, nil
}
