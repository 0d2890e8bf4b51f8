package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/platform/logger"
	"github.com/phrazzld/products-api/internal/store"
)

// ProductHandler serves the /api/products routes.
type ProductHandler struct {
	products store.ProductStore
	logger   *slog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products store.ProductStore, logger *slog.Logger) *ProductHandler {
	if products == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("product store cannot be nil for ProductHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProductHandler")
	}

	return &ProductHandler{
		products: products,
		logger:   logger.With(slog.String("component", "product_handler")),
	}
}

// List handles GET /api/products.
// Supports ?category=, ?search= (or ?q=), ?page= and ?limit=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   queryParam(r, "search", "q"),
	}
	items := h.products.List(r.Context(), filter)
	page := h.products.Paginate(items,
		parseIntParam(r.URL.Query().Get("page")),
		parseIntParam(r.URL.Query().Get("limit")))

	shared.RespondWithJSON(w, r, http.StatusOK, ProductListResponse{
		Success: true,
		Meta:    page.Meta,
		Data:    page.Data,
	})
}

// Search handles GET /api/products/search?q=.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		shared.RespondWithAPIError(w, r, domain.NewValidationError(MsgSearchQuery))
		return
	}

	items := h.products.List(r.Context(), domain.ProductFilter{Search: q})
	shared.RespondWithJSON(w, r, http.StatusOK, ProductSearchResponse{
		Success: true,
		Query:   q,
		Count:   len(items),
		Data:    items,
	})
}

// Stats handles GET /api/products/stats.
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.products.Stats(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, ProductStatsResponse{
		Success:    true,
		Total:      stats.Total,
		InStock:    stats.InStock,
		ByCategory: stats.ByCategory,
	})
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, ok := h.products.FindByID(r.Context(), pathID(r))
	if !ok {
		shared.RespondWithAPIError(w, r, domain.NewNotFoundError(MsgProductNotFound))
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProductResponse{Success: true, Data: product})
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	input, err := domain.ValidateCreate(shared.BodyFromContext(r.Context()))
	if err != nil {
		shared.RespondWithAPIError(w, r, err)
		return
	}

	product, err := h.products.Create(r.Context(), input)
	if err != nil {
		shared.RespondWithAPIError(w, r, classifyError(err))
		return
	}

	log.Info("product created", slog.String("product_id", product.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, ProductResponse{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// Update handles PUT /api/products/{id}. The payload is validated before the
// product is looked up, so an invalid payload is reported even for unknown ids.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	patch, err := domain.ValidateUpdate(shared.BodyFromContext(r.Context()))
	if err != nil {
		shared.RespondWithAPIError(w, r, err)
		return
	}

	id := pathID(r)
	product, found, err := h.products.Update(r.Context(), id, patch)
	if err != nil {
		shared.RespondWithAPIError(w, r, classifyError(err))
		return
	}
	if !found {
		shared.RespondWithAPIError(w, r, domain.NewNotFoundError(MsgProductNotFound))
		return
	}

	log.Info("product updated", slog.String("product_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, ProductResponse{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !h.products.Delete(r.Context(), id) {
		shared.RespondWithAPIError(w, r, domain.NewNotFoundError(MsgProductNotFound))
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).
		Info("product deleted", slog.String("product_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}
