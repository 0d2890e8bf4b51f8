package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/platform/logger"
	"github.com/phrazzld/products-api/internal/store"
	"github.com/shopspring/decimal"
)

const upsertProductQuery = `
	INSERT INTO products (id, name, description, price, category, in_stock)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		in_stock = EXCLUDED.in_stock,
		updated_at = NOW()
`

// ProductMirror keeps a durable copy of the product collection.
// Updates keep a row's original sequence number, so LoadAll returns products
// in the order they were first created.
type ProductMirror struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ store.ProductMirror = (*ProductMirror)(nil)
	_ store.BulkSaver     = (*ProductMirror)(nil)
)

// NewProductMirror creates a mirror over an open, migrated database.
func NewProductMirror(db *sql.DB, logger *slog.Logger) *ProductMirror {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductMirror{
		db:     db,
		logger: logger.With(slog.String("component", "product_mirror")),
	}
}

// Save implements store.ProductMirror.
func (m *ProductMirror) Save(ctx context.Context, product domain.Product) error {
	return m.save(ctx, m.db, product)
}

func (m *ProductMirror) save(ctx context.Context, db store.DBTX, product domain.Product) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	_, err := db.ExecContext(ctx, upsertProductQuery,
		product.ID,
		product.Name,
		product.Description,
		decimal.NewFromFloat(product.Price),
		product.Category,
		product.InStock,
	)
	if err != nil {
		log.Error("failed to mirror product",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("product mirrored", slog.String("product_id", product.ID))
	return nil
}

// SaveAll implements store.BulkSaver. Either every product is written or none is.
func (m *ProductMirror) SaveAll(ctx context.Context, products []domain.Product) error {
	return store.RunInTransaction(ctx, m.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, p := range products {
			if err := m.save(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete implements store.ProductMirror. Missing rows are ignored.
func (m *ProductMirror) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	result, err := m.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete mirrored product",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		log.Debug("mirrored product already absent", slog.String("product_id", id))
	}
	return nil
}

// LoadAll implements store.ProductMirror.
func (m *ProductMirror) LoadAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, description, price, category, in_stock
		FROM products
		ORDER BY seq
	`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var (
			p     domain.Product
			price decimal.Decimal
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Category, &p.InStock); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", MapError(err))
		}
		p.Price = price.InexactFloat64()
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", MapError(err))
	}

	m.logger.Info("loaded mirrored products", slog.Int("count", len(products)))
	return products, nil
}
