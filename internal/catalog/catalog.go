// Package catalog owns the in-memory product collection and its derived
// calendar event projection. Every mutation rebuilds the projection and
// flushes both collections to the store before returning, so readers
// never observe partial state.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"prodtrack/internal/model"
	"prodtrack/internal/store"
)

// eventNote is the static annotation attached to every derived event.
const eventNote = "Product expiry"

// Catalog is the authoritative owner of both collections. The store is
// a write-through mirror with no independent authority: its contents
// become the truth once at load time, and are overwritten after every
// mutation.
type Catalog struct {
	mu       sync.Mutex
	products []model.Product
	events   []model.CalendarEvent

	store  store.Store
	logger zerolog.Logger

	now   func() time.Time
	newID func() string
}

// Open loads both collections from the store and returns a ready
// catalogue.
func Open(ctx context.Context, st store.Store, logger zerolog.Logger) (*Catalog, error) {
	products, err := st.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	events, err := st.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	c := &Catalog{
		products: products,
		events:   events,
		store:    st,
		logger:   logger.With().Str("component", "catalog").Logger(),
		now:      time.Now,
		newID:    uuid.NewString,
	}

	c.logger.Info().
		Int("products", len(products)).
		Int("events", len(events)).
		Msg("catalogue loaded")

	return c, nil
}

// Create adds a product with a fresh ID and scan timestamp at the head
// of the collection (most recent first), recomputes the event
// projection and persists both collections.
//
// The engine does not validate fields; requiring a non-empty name is a
// boundary concern.
func (c *Catalog) Create(ctx context.Context, fields model.ProductFields) (model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := model.Product{
		ID:         c.newID(),
		Name:       fields.Name,
		Code:       fields.Code,
		ExpiryDate: fields.ExpiryDate,
		ScannedAt:  c.now(),
	}

	c.products = append([]model.Product{p}, c.products...)
	c.syncEvents()
	if err := c.flush(ctx); err != nil {
		return model.Product{}, err
	}

	c.logger.Info().
		Str("product_id", p.ID).
		Str("name", p.Name).
		Str("expiry", p.ExpiryDate).
		Msg("product created")

	return p, nil
}

// Update replaces the mutable fields of the product with the given id,
// preserving ID and ScannedAt. An unknown id is a silent no-op (a
// benign double-submit) and returns a nil product with no error.
func (c *Catalog) Update(ctx context.Context, id string, fields model.ProductFields) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.products {
		if c.products[i].ID != id {
			continue
		}
		c.products[i].Name = fields.Name
		c.products[i].Code = fields.Code
		c.products[i].ExpiryDate = fields.ExpiryDate

		c.syncEvents()
		if err := c.flush(ctx); err != nil {
			return nil, err
		}

		p := c.products[i]
		c.logger.Info().Str("product_id", id).Msg("product updated")
		return &p, nil
	}

	c.logger.Debug().Str("product_id", id).Msg("update for unknown product ignored")
	return nil, nil
}

// Delete removes the product with the given id along with its derived
// event. An unknown id is a silent no-op.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.products {
		if c.products[i].ID != id {
			continue
		}
		c.products = append(c.products[:i], c.products[i+1:]...)

		c.syncEvents()
		if err := c.flush(ctx); err != nil {
			return err
		}

		c.logger.Info().Str("product_id", id).Msg("product deleted")
		return nil
	}

	c.logger.Debug().Str("product_id", id).Msg("delete for unknown product ignored")
	return nil
}

// Get returns a copy of the product with the given id, or nil.
func (c *Catalog) Get(id string) *model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.products {
		if p.ID == id {
			cp := p
			return &cp
		}
	}
	return nil
}

// Products returns a copy of the product collection in insertion order,
// most recent first.
func (c *Catalog) Products() []model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Product(nil), c.products...)
}

// Events returns a copy of the derived event collection.
func (c *Catalog) Events() []model.CalendarEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.CalendarEvent(nil), c.events...)
}

// syncEvents rebuilds the projection from scratch: one event per dated
// product, keyed by the product's own id. Caller holds the lock.
func (c *Catalog) syncEvents() {
	events := make([]model.CalendarEvent, 0, len(c.products))
	for _, p := range c.products {
		if p.ExpiryDate == "" {
			continue
		}
		events = append(events, model.CalendarEvent{
			EventID:    p.ID,
			ProductRef: p.ID,
			Name:       p.Name,
			ExpiryDate: p.ExpiryDate,
			Note:       eventNote,
		})
	}
	c.events = events
}

// flush writes both collections in full. Caller holds the lock.
func (c *Catalog) flush(ctx context.Context) error {
	if err := c.store.SaveProducts(ctx, c.products); err != nil {
		return fmt.Errorf("failed to persist products: %w", err)
	}
	if err := c.store.SaveEvents(ctx, c.events); err != nil {
		return fmt.Errorf("failed to persist events: %w", err)
	}
	return nil
}
