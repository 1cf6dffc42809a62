package store

import (
	"context"

	"prodtrack/internal/model"
)

// Store mirrors the in-memory catalogue to durable storage. Both
// collections are read whole at startup and rewritten whole after every
// mutation; the store never holds independent authority over the data.
type Store interface {
	// LoadProducts reads the full product collection. A store that has
	// never been written returns an empty collection, not an error.
	LoadProducts(ctx context.Context) ([]model.Product, error)

	// LoadEvents reads the full calendar event collection.
	LoadEvents(ctx context.Context) ([]model.CalendarEvent, error)

	// SaveProducts replaces the persisted product collection.
	SaveProducts(ctx context.Context, products []model.Product) error

	// SaveEvents replaces the persisted event collection.
	SaveEvents(ctx context.Context, events []model.CalendarEvent) error

	// Close releases the underlying database.
	Close() error
}
