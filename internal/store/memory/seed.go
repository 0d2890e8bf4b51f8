package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/store"
)

// SampleProducts returns the catalog a fresh deployment starts with.
func SampleProducts() []domain.ProductInput {
	return []domain.ProductInput{
		{
			Name:        `MacBook Pro 16"`,
			Description: "Apple MacBook Pro 16-inch with M2 Pro chip, 16GB RAM, 1TB SSD",
			Price:       2499.99,
			Category:    "Electronics",
			InStock:     true,
		},
		{
			Name:        "Wireless Gaming Mouse",
			Description: "Ergonomic wireless gaming mouse with RGB lighting and programmable buttons",
			Price:       79.99,
			Category:    "Electronics",
			InStock:     true,
		},
		{
			Name:        "Stainless Steel Water Bottle",
			Description: "1L insulated stainless steel water bottle, keeps drinks cold for 24 hours",
			Price:       29.99,
			Category:    "Sports & Outdoors",
			InStock:     false,
		},
		{
			Name:        "Organic Cotton T-Shirt",
			Description: "100% organic cotton t-shirt, available in multiple colors and sizes",
			Price:       24.99,
			Category:    "Clothing",
			InStock:     true,
		},
		{
			Name:        "Bluetooth Speaker",
			Description: "Portable Bluetooth speaker with 20W output and waterproof design",
			Price:       89.99,
			Category:    "Electronics",
			InStock:     true,
		},
		{
			Name:        "Yoga Mat",
			Description: "Non-slip eco-friendly yoga mat with carrying strap",
			Price:       39.99,
			Category:    "Sports & Outdoors",
			InStock:     true,
		},
		{
			Name:        "Desk Lamp",
			Description: "LED desk lamp with adjustable brightness and color temperature",
			Price:       45.50,
			Category:    "Home & Office",
			InStock:     false,
		},
		{
			Name:        "Coffee Maker",
			Description: "Programmable coffee maker with thermal carafe and built-in grinder",
			Price:       129.99,
			Category:    "Home & Kitchen",
			InStock:     true,
		},
	}
}

// HydrateResult reports what Hydrate did.
type HydrateResult struct {
	Loaded int
	Seeded int
}

// Hydrate fills an empty store from mirror. When the mirror holds nothing and
// seed is non-empty, the seed products are created and written back to the
// mirror synchronously. Hydrate does not emit events.
func (s *ProductStore) Hydrate(
	ctx context.Context,
	mirror store.ProductMirror,
	seed []domain.ProductInput,
) (HydrateResult, error) {
	var result HydrateResult

	existing, err := mirror.LoadAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load mirrored products: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.products) > 0 {
		return result, fmt.Errorf("cannot hydrate a store that already holds %d products", len(s.products))
	}

	for _, p := range existing {
		if err := p.Validate(); err != nil {
			s.logger.Warn("skipping invalid mirrored product",
				slog.String("product_id", p.ID),
				slog.String("error", err.Error()))
			continue
		}
		if _, dup := s.issued[p.ID]; dup {
			s.logger.Warn("skipping duplicate mirrored product", slog.String("product_id", p.ID))
			continue
		}
		s.issued[p.ID] = struct{}{}
		s.products = append(s.products, p)
		result.Loaded++
	}

	if result.Loaded > 0 || len(seed) == 0 {
		return result, nil
	}

	seeded := make([]domain.Product, 0, len(seed))
	for _, input := range seed {
		id, err := s.issueID()
		if err != nil {
			return result, err
		}
		p := domain.Product{
			ID:          id,
			Name:        input.Name,
			Description: input.Description,
			Price:       domain.NormalizePrice(input.Price),
			Category:    input.Category,
			InStock:     input.InStock,
		}
		if err := p.Validate(); err != nil {
			return result, fmt.Errorf("invalid seed product %q: %w", input.Name, err)
		}
		s.issued[id] = struct{}{}
		seeded = append(seeded, p)
	}
	s.products = append(s.products, seeded...)
	result.Seeded = len(seeded)

	if err := saveAll(ctx, mirror, seeded); err != nil {
		return result, fmt.Errorf("failed to mirror seed products: %w", err)
	}
	return result, nil
}

func saveAll(ctx context.Context, mirror store.ProductMirror, products []domain.Product) error {
	if bulk, ok := mirror.(store.BulkSaver); ok {
		return bulk.SaveAll(ctx, products)
	}
	for _, p := range products {
		if err := mirror.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
