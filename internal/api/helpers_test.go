package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/store/memory"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seededStore returns a store holding the sample catalog.
func seededStore(t *testing.T) *memory.ProductStore {
	t.Helper()
	s := memory.NewProductStore(discardLogger())
	for _, input := range memory.SampleProducts() {
		_, err := s.Create(context.Background(), input)
		require.NoError(t, err)
	}
	return s
}

func productRouter(h *ProductHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/products", h.List)
	r.Get("/api/products/search", h.Search)
	r.Get("/api/products/stats", h.Stats)
	r.Get("/api/products/{id}", h.Get)
	r.Post("/api/products", h.Create)
	r.Put("/api/products/{id}", h.Update)
	r.Delete("/api/products/{id}", h.Delete)
	return r
}

// doRequest serves a request whose decoded body is injected into the context,
// standing in for the body-decoding middleware.
func doRequest(t *testing.T, h http.Handler, method, target string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	if body != nil {
		req = req.WithContext(shared.WithBody(req.Context(), body))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func firstProductID(t *testing.T, s *memory.ProductStore) string {
	t.Helper()
	items := s.List(context.Background(), domain.ProductFilter{})
	require.NotEmpty(t, items)
	return items[0].ID
}
