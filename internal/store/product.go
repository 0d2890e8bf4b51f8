package store

import (
	"context"

	"github.com/phrazzld/products-api/internal/domain"
)

// ProductStore owns the authoritative product collection and the query
// primitives over it. Implementations must make every operation atomic with
// respect to the others and must never hand out references to stored records.
type ProductStore interface {
	// List returns a snapshot of the products matching filter, in insertion order.
	List(ctx context.Context, filter domain.ProductFilter) []domain.Product

	// Paginate slices items into the requested page. A zero page or limit
	// takes its default and a negative one is raised to 1.
	Paginate(items []domain.Product, page, limit int) domain.Page

	// FindByID returns the product and true, or false if it does not exist.
	FindByID(ctx context.Context, id string) (domain.Product, bool)

	// Create stores a sanitized payload under a freshly issued ID.
	Create(ctx context.Context, input domain.ProductInput) (domain.Product, error)

	// Update merges the supplied fields onto an existing product.
	// The boolean is false when no product has the given ID.
	Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, bool, error)

	// Delete removes a product, reporting whether one was removed.
	Delete(ctx context.Context, id string) bool

	// Stats aggregates the whole collection.
	Stats(ctx context.Context) domain.ProductStats
}

// ProductMirror is a persistence strategy that keeps a durable copy of the
// authoritative collection. Mirrors are written best-effort and off the
// request path; they are only read at startup.
type ProductMirror interface {
	// Save inserts or replaces a product.
	Save(ctx context.Context, product domain.Product) error

	// Delete removes a product. Deleting a missing product is not an error.
	Delete(ctx context.Context, id string) error

	// LoadAll returns every mirrored product in insertion order.
	LoadAll(ctx context.Context) ([]domain.Product, error)
}

// NoopMirror is the in-memory-only strategy: nothing is persisted.
type NoopMirror struct{}

var _ ProductMirror = NoopMirror{}

// Save implements ProductMirror.
func (NoopMirror) Save(context.Context, domain.Product) error { return nil }

// Delete implements ProductMirror.
func (NoopMirror) Delete(context.Context, string) error { return nil }

// LoadAll implements ProductMirror.
func (NoopMirror) LoadAll(context.Context) ([]domain.Product, error) { return nil, nil }

// BulkSaver is implemented by mirrors that can persist many products in one
// round trip. It is used when seeding an empty mirror at startup.
type BulkSaver interface {
	SaveAll(ctx context.Context, products []domain.Product) error
}
