package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
)

// KeyIssuer manages API keys on behalf of the admin routes.
type KeyIssuer interface {
	Issue(ctx context.Context, tier domain.Tier) (domain.APIKey, error)
	List(ctx context.Context) []domain.APIKey
}

// KeyHandler serves the /api/keys routes.
type KeyHandler struct {
	keys   KeyIssuer
	logger *slog.Logger
}

// NewKeyHandler creates a new KeyHandler
func NewKeyHandler(keys KeyIssuer, logger *slog.Logger) *KeyHandler {
	if keys == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("keys and logger cannot be nil for KeyHandler")
	}
	return &KeyHandler{
		keys:   keys,
		logger: logger.With(slog.String("component", "key_handler")),
	}
}

// List handles GET /api/keys. Keys are masked to their prefix.
func (h *KeyHandler) List(w http.ResponseWriter, r *http.Request) {
	keys := h.keys.List(r.Context())
	masked := make([]domain.APIKey, len(keys))
	for i, k := range keys {
		masked[i] = k.Masked()
	}
	shared.RespondWithJSON(w, r, http.StatusOK, KeyListResponse{
		Success: true,
		Count:   len(masked),
		Data:    masked,
	})
}

// Issue handles POST /api/keys. The full key is only ever returned here.
func (h *KeyHandler) Issue(w http.ResponseWriter, r *http.Request) {
	body := shared.BodyFromContext(r.Context())

	var req IssueKeyRequest
	if raw, ok := body["tier"]; ok && raw != nil {
		tier, isString := raw.(string)
		if !isString {
			shared.RespondWithAPIError(w, r, invalidTierError())
			return
		}
		req.Tier = tier
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithAPIError(w, r, invalidTierError())
		return
	}

	key, err := h.keys.Issue(r.Context(), domain.Tier(req.Tier))
	if err != nil {
		shared.RespondWithAPIError(w, r, classifyError(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, KeyResponse{
		Success: true,
		Message: "API key issued successfully",
		Data:    key,
	})
}
