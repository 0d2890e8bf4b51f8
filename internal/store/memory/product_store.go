package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/events"
	"github.com/phrazzld/products-api/internal/platform/logger"
	"github.com/phrazzld/products-api/internal/store"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// maxIDAttempts bounds how many generated ids are tried before giving up.
const maxIDAttempts = 5

// Option configures a ProductStore.
type Option func(*ProductStore)

// WithEmitter sets the emitter that receives product change events.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(s *ProductStore) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new products.
func WithIDGenerator(gen func() string) Option {
	return func(s *ProductStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// ProductStore implements store.ProductStore over an insertion-ordered slice.
type ProductStore struct {
	mu       sync.RWMutex
	products []domain.Product
	// issued holds every id ever handed out, including deleted ones.
	issued  map[string]struct{}
	emitter events.EventEmitter
	newID   func() string
	logger  *slog.Logger
}

var _ store.ProductStore = (*ProductStore)(nil)

type noopEmitter struct{}

func (noopEmitter) EmitEvent(context.Context, *events.ProductEvent) error { return nil }

// NewProductStore creates an empty store.
func NewProductStore(logger *slog.Logger, opts ...Option) *ProductStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ProductStore{
		issued:  make(map[string]struct{}),
		emitter: noopEmitter{},
		newID:   func() string { return uuid.New().String() },
		logger:  logger.With(slog.String("component", "product_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List implements store.ProductStore.
func (s *ProductStore) List(ctx context.Context, filter domain.ProductFilter) []domain.Product {
	category := strings.ToLower(strings.TrimSpace(filter.Category))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Paginate implements store.ProductStore. A zero page or limit means the
// parameter was absent and takes its default; negative values are raised to 1.
func (s *ProductStore) Paginate(items []domain.Product, page, limit int) domain.Page {
	page = normalizeParam(page, DefaultPage)
	limit = normalizeParam(limit, DefaultLimit)

	total := len(items)
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	data := []domain.Product{}
	// Compare page index against the page count before multiplying so huge
	// values cannot overflow.
	if page-1 < totalPages {
		start := (page - 1) * limit
		end := start + limit
		if end > total {
			end = total
		}
		if start < end {
			data = make([]domain.Product, end-start)
			copy(data, items[start:end])
		}
	}

	return domain.Page{
		Data: data,
		Meta: domain.PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}

func normalizeParam(v, def int) int {
	switch {
	case v == 0:
		return def
	case v < 0:
		return 1
	default:
		return v
	}
}

// FindByID implements store.ProductStore.
func (s *ProductStore) FindByID(ctx context.Context, id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.products[i], true
	}
	return domain.Product{}, false
}

// Create implements store.ProductStore.
func (s *ProductStore) Create(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.issueID()
	if err != nil {
		log.Error("failed to issue product id", slog.String("error", err.Error()))
		return domain.Product{}, domain.NewInternalError(err)
	}

	product := domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		InStock:     input.InStock,
	}
	if err := product.Validate(); err != nil {
		log.Error("refusing to store invalid product", slog.String("error", err.Error()))
		return domain.Product{}, domain.NewInternalError(
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	s.issued[id] = struct{}{}
	s.products = append(s.products, product)
	s.emit(ctx, events.NewProductSavedEvent(product))

	log.Debug("product created", slog.String("product_id", id))
	return product, nil
}

// Update implements store.ProductStore.
func (s *ProductStore) Update(
	ctx context.Context,
	id string,
	patch domain.ProductPatch,
) (domain.Product, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, false, nil
	}

	updated := patch.Apply(s.products[i])
	if err := updated.Validate(); err != nil {
		log.Error("refusing to store invalid product",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		return domain.Product{}, true, domain.NewInternalError(
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	s.products[i] = updated
	s.emit(ctx, events.NewProductSavedEvent(updated))

	log.Debug("product updated", slog.String("product_id", id))
	return updated, true, nil
}

// Delete implements store.ProductStore.
func (s *ProductStore) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	s.emit(ctx, events.NewProductDeletedEvent(id))

	logger.FromContextOrDefault(ctx, s.logger).Debug("product deleted", slog.String("product_id", id))
	return true
}

// Stats implements store.ProductStore.
func (s *ProductStore) Stats(ctx context.Context) domain.ProductStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.ProductStats{
		Total:      len(s.products),
		ByCategory: make(map[string]int),
	}
	for _, p := range s.products {
		if p.InStock {
			stats.InStock++
		}
		category := p.Category
		if category == "" {
			category = domain.UncategorizedBucket
		}
		stats.ByCategory[category]++
	}
	return stats
}

// Len returns the number of stored products.
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// indexOf must be called with s.mu held.
func (s *ProductStore) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// issueID must be called with s.mu held.
func (s *ProductStore) issueID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := s.issued[id]; !taken {
			return id, nil
		}
	}
	return "", store.ErrIDExhausted
}

// emit is called with s.mu held so events leave in mutation order.
// Emitter failures only affect the mirror and are logged.
func (s *ProductStore) emit(ctx context.Context, event *events.ProductEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("product event not mirrored",
			slog.String("event_type", event.Type),
			slog.String("product_id", event.ProductID),
			slog.String("error", err.Error()))
	}
}
