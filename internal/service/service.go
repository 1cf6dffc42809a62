package service

import (
	"context"

	"prodtrack/internal/model"
)

// Catalog is the catalogue engine surface consumed by the HTTP layer
// and the scan pipeline.
type Catalog interface {
	// Create adds a product and returns it with its assigned identity.
	Create(ctx context.Context, fields model.ProductFields) (model.Product, error)

	// Update replaces a product's mutable fields. A nil product with a
	// nil error means the id was unknown (benign no-op).
	Update(ctx context.Context, id string, fields model.ProductFields) (*model.Product, error)

	// Delete removes a product; unknown ids are a no-op.
	Delete(ctx context.Context, id string) error

	// Get returns the product with the given id, or nil.
	Get(id string) *model.Product

	// Products returns the collection, most recent first.
	Products() []model.Product

	// Events returns the derived calendar event projection.
	Events() []model.CalendarEvent
}

// Scanner runs captured images through extraction and the auto-save
// decision.
type Scanner interface {
	ProcessImage(ctx context.Context, image []byte, mimeType string) (*ScanOutcome, error)
}
