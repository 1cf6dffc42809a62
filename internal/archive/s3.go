package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Archive implements Archive against an S3 bucket.
type s3Archive struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archive creates an S3-backed image archive.
func NewS3Archive(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archive, error) {
	logger = logger.With().Str("component", "s3-archive").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 archive initialised")

	return &s3Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Put uploads the image and returns its s3:// location.
func (a *s3Archive) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	fullKey := a.prefix + key

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", fullKey).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", a.bucket, fullKey, err)
	}

	a.logger.Debug().
		Str("bucket", a.bucket).
		Str("key", fullKey).
		Int("bytes", len(data)).
		Msg("image archived to S3")

	return fmt.Sprintf("s3://%s/%s", a.bucket, fullKey), nil
}
