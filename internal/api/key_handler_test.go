package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRouter(h *KeyHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/keys", h.List)
	r.Post("/api/keys", h.Issue)
	return r
}

type failingIssuer struct{}

func (failingIssuer) Issue(context.Context, domain.Tier) (domain.APIKey, error) {
	return domain.APIKey{}, errors.New("key space exhausted")
}

func (failingIssuer) List(context.Context) []domain.APIKey { return nil }

func TestKeyHandler_List_MasksKeys(t *testing.T) {
	t.Parallel()

	registry := auth.NewKeyRegistry(discardLogger())
	h := keyRouter(NewKeyHandler(registry, discardLogger()))

	rec := doRequest(t, h, http.MethodGet, "/api/keys", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[KeyListResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, 4, resp.Count)
	require.Len(t, resp.Data, 4)
	for _, k := range resp.Data {
		assert.True(t, strings.HasSuffix(k.Key, "..."), k.Key)
		assert.LessOrEqual(t, len(k.Key), domain.KeyPrefixLength+3)
	}
	assert.Equal(t, "prod_key...", resp.Data[1].Key)
	assert.NotContains(t, rec.Body.String(), "abc123def456")
}

func TestKeyHandler_Issue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     map[string]any
		wantTier domain.Tier
	}{
		{"default tier", map[string]any{}, domain.TierDevelopment},
		{"null tier", map[string]any{"tier": nil}, domain.TierDevelopment},
		{"production", map[string]any{"tier": "production"}, domain.TierProduction},
		{"testing", map[string]any{"tier": "testing"}, domain.TierTesting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := auth.NewKeyRegistry(discardLogger())
			h := keyRouter(NewKeyHandler(registry, discardLogger()))

			rec := doRequest(t, h, http.MethodPost, "/api/keys", tt.body)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			resp := decode[KeyResponse](t, rec)
			assert.True(t, resp.Success)
			assert.Equal(t, "API key issued successfully", resp.Message)
			assert.Equal(t, tt.wantTier, resp.Data.Tier)
			assert.True(t, strings.HasPrefix(resp.Data.Key, "key_"))
			assert.Nil(t, resp.Data.LastUsed)

			// The issued key is immediately usable.
			_, err := registry.Authenticate(context.Background(), resp.Data.Key)
			assert.NoError(t, err)
		})
	}
}

func TestKeyHandler_Issue_RejectsUnknownTier(t *testing.T) {
	t.Parallel()

	for _, tier := range []any{"admin", "PRODUCTION", 42.0, true} {
		registry := auth.NewKeyRegistry(discardLogger())
		h := keyRouter(NewKeyHandler(registry, discardLogger()))

		rec := doRequest(t, h, http.MethodPost, "/api/keys", map[string]any{"tier": tier})
		require.Equal(t, http.StatusBadRequest, rec.Code, "tier %v", tier)

		resp := decode[shared.ErrorResponse](t, rec)
		assert.Equal(t, []string{MsgInvalidTier}, resp.Errors)
		assert.Len(t, registry.List(context.Background()), 4, "nothing is registered")
	}
}

func TestKeyHandler_Issue_InternalFailure(t *testing.T) {
	t.Parallel()

	h := keyRouter(NewKeyHandler(failingIssuer{}, discardLogger()))

	rec := doRequest(t, h, http.MethodPost, "/api/keys", map[string]any{})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode[shared.ErrorResponse](t, rec)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.NotContains(t, rec.Body.String(), "exhausted")
}
