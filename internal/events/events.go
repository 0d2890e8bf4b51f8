package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/products-api/internal/domain"
)

// Product event types.
const (
	ProductSaved   = "product.saved"
	ProductDeleted = "product.deleted"
)

// ProductEvent describes a committed change to the product collection.
type ProductEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is ProductSaved or ProductDeleted
	Type string `json:"type"`

	// ProductID identifies the affected product
	ProductID string `json:"productId"`

	// Product is a copy of the record after the change; zero for deletions
	Product domain.Product `json:"product"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"createdAt"`
}

// NewProductSavedEvent records a create or update.
func NewProductSavedEvent(p domain.Product) *ProductEvent {
	return &ProductEvent{
		ID:        uuid.New(),
		Type:      ProductSaved,
		ProductID: p.ID,
		Product:   p,
		CreatedAt: time.Now().UTC(),
	}
}

// NewProductDeletedEvent records a hard delete.
func NewProductDeletedEvent(id string) *ProductEvent {
	return &ProductEvent{
		ID:        uuid.New(),
		Type:      ProductDeleted,
		ProductID: id,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler processes emitted events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ProductEvent) error
}

// EventEmitter publishes events to registered handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ProductEvent) error
}
