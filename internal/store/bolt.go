package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"

	"prodtrack/internal/model"
)

var (
	bucketProducts = []byte("products")
	bucketEvents   = []byte("events")

	// Each bucket holds the whole collection under a single key, the
	// same shape as the two localStorage entries this store replaces.
	recordKey = []byte("all")
)

// boltStore implements Store on an embedded bbolt database file.
type boltStore struct {
	db     *bbolt.DB
	logger zerolog.Logger
}

// Open opens the catalogue database at path, creating it and its
// buckets when missing.
func Open(path string, logger zerolog.Logger) (Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketProducts, bucketEvents} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger = logger.With().Str("component", "store").Logger()
	logger.Info().Str("path", path).Msg("store opened")

	return &boltStore{db: db, logger: logger}, nil
}

// LoadProducts reads the full product collection.
func (s *boltStore) LoadProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := s.load(ctx, bucketProducts, &products); err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(products)).Msg("loaded products")
	return products, nil
}

// LoadEvents reads the full calendar event collection.
func (s *boltStore) LoadEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	events := []model.CalendarEvent{}
	if err := s.load(ctx, bucketEvents, &events); err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(events)).Msg("loaded events")
	return events, nil
}

// SaveProducts replaces the persisted product collection.
func (s *boltStore) SaveProducts(ctx context.Context, products []model.Product) error {
	return s.save(ctx, bucketProducts, products)
}

// SaveEvents replaces the persisted event collection.
func (s *boltStore) SaveEvents(ctx context.Context, events []model.CalendarEvent) error {
	return s.save(ctx, bucketEvents, events)
}

// Close releases the database file.
func (s *boltStore) Close() error {
	return s.db.Close()
}

func (s *boltStore) load(ctx context.Context, bucket []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		raw := b.Get(recordKey)
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("failed to decode %s collection: %w", bucket, err)
		}
		return nil
	})
}

func (s *boltStore) save(ctx context.Context, bucket []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s collection: %w", bucket, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(recordKey, raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s collection: %w", bucket, err)
	}
	return nil
}
