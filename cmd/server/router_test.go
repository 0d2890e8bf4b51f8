package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/products-api/internal/api"
	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prodKey = "prod_key_abc123def456"
	devKey  = "dev_key_mno345pqr678"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   3000,
			LogLevel:               "error",
			Environment:            config.EnvTest,
			ShutdownTimeoutSeconds: 1,
			MaxBodyBytes:           10 << 20,
		},
		Auth:    config.AuthConfig{APIKeyHeader: "X-API-Key"},
		Mirror:  config.MirrorConfig{QueueSize: 16, WorkerCount: 1},
		Catalog: config.CatalogConfig{SeedSamples: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), cfg, logger, nil)
	require.NoError(t, err)

	server := httptest.NewServer(app.setupRouter())
	t.Cleanup(func() {
		server.Close()
		app.cleanup(context.Background())
	})
	return server
}

func send(t *testing.T, server *httptest.Server, method, path, key, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_PublicRoutes(t *testing.T) {
	server := newTestServer(t, testConfig())

	resp := send(t, server, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))
	assert.Equal(t, "success", decodeBody[api.HealthResponse](t, resp).Status)

	resp = send(t, server, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.ServiceName, decodeBody[api.ServiceInfoResponse](t, resp).Service)
}

func TestRouter_Authentication(t *testing.T) {
	server := newTestServer(t, testConfig())

	t.Run("missing key", func(t *testing.T) {
		resp := send(t, server, http.MethodGet, "/api/products", "", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody[shared.ErrorResponse](t, resp)
		assert.False(t, body.Success)
		assert.Equal(t, "Authentication required", body.Message)
		assert.Equal(t, "Missing API key. Please provide X-API-Key in headers or Authorization header", body.Error)
	})

	t.Run("unknown key", func(t *testing.T) {
		resp := send(t, server, http.MethodGet, "/api/products", "nope", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody[shared.ErrorResponse](t, resp)
		assert.Equal(t, "Authentication failed", body.Message)
		assert.Equal(t, "Invalid API key", body.Error)
	})

	t.Run("bearer token in Authorization", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/api/products", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+devKey)

		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := decodeBody[api.ProductListResponse](t, resp)
		assert.Equal(t, 8, list.Meta.Total)
	})
}

func TestRouter_ProductLifecycle(t *testing.T) {
	server := newTestServer(t, testConfig())

	resp := send(t, server, http.MethodPost, "/api/products", devKey,
		`{"name":"Standing Desk","description":"Electric standing desk","price":349.999,"category":"Home & Office","inStock":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[api.ProductResponse](t, resp)
	assert.Equal(t, 349.99, created.Data.Price)

	resp = send(t, server, http.MethodGet, "/api/products/"+created.Data.ID, devKey, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, server, http.MethodPut, "/api/products/"+created.Data.ID, devKey, `{"inStock":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeBody[api.ProductResponse](t, resp).Data.InStock)

	resp = send(t, server, http.MethodGet, "/api/products?category=home%20%26%20office", devKey, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decodeBody[api.ProductListResponse](t, resp).Meta.Total)

	// Deleting needs a production key.
	resp = send(t, server, http.MethodDelete, "/api/products/"+created.Data.ID, devKey, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	forbidden := decodeBody[shared.ErrorResponse](t, resp)
	assert.Equal(t, "Insufficient permissions", forbidden.Message)
	assert.Equal(t, "Production API key required for this operation", forbidden.Error)

	resp = send(t, server, http.MethodDelete, "/api/products/"+created.Data.ID, prodKey, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, server, http.MethodGet, "/api/products/"+created.Data.ID, devKey, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_MalformedBody(t *testing.T) {
	server := newTestServer(t, testConfig())

	for _, body := range []string{`{"name":`, `[1,2]`, `"text"`} {
		resp := send(t, server, http.MethodPost, "/api/products", devKey, body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)

		errBody := decodeBody[shared.ErrorResponse](t, resp)
		assert.Equal(t, "Invalid JSON payload", errBody.Message)
		assert.Equal(t, "Malformed JSON in request body", errBody.Error)
	}
}

func TestRouter_MalformedBodyIsRejectedBeforeAuthentication(t *testing.T) {
	server := newTestServer(t, testConfig())

	resp := send(t, server, http.MethodPost, "/api/products", "", `{bad`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_OversizedBody(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 32
	server := newTestServer(t, cfg)

	resp := send(t, server, http.MethodPost, "/api/products", devKey,
		`{"name":"`+strings.Repeat("x", 64)+`"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Request body exceeds the size limit", decodeBody[shared.ErrorResponse](t, resp).Error)
}

func TestRouter_UnknownRoutesAndMethods(t *testing.T) {
	server := newTestServer(t, testConfig())

	resp := send(t, server, http.MethodGet, "/does/not/exist", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	notFound := decodeBody[shared.ErrorResponse](t, resp)
	assert.Equal(t, "Route not found", notFound.Message)
	assert.Equal(t, "/does/not/exist", notFound.Path)

	resp = send(t, server, http.MethodPost, "/health", "", "")
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET", resp.Header.Get("Allow"))
	assert.Equal(t, "Method not allowed", decodeBody[shared.ErrorResponse](t, resp).Message)

	resp = send(t, server, http.MethodPatch, "/api/products/some-id", devKey, "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, PUT, DELETE", resp.Header.Get("Allow"))
}

func TestRouter_Preflight(t *testing.T) {
	server := newTestServer(t, testConfig())

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/products", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-API-Key")
}

func TestRouter_KeyManagement(t *testing.T) {
	server := newTestServer(t, testConfig())

	resp := send(t, server, http.MethodGet, "/api/keys", devKey, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = send(t, server, http.MethodGet, "/api/keys", prodKey, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeBody[api.KeyListResponse](t, resp)
	assert.Equal(t, 4, listed.Count)
	assert.NotContains(t, listed.Data[1].Key, "abc123")

	resp = send(t, server, http.MethodPost, "/api/keys", prodKey, `{"tier":"testing"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	issued := decodeBody[api.KeyResponse](t, resp)
	assert.Equal(t, "testing", string(issued.Data.Tier))

	resp = send(t, server, http.MethodGet, "/api/products/stats", issued.Data.Key, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, server, http.MethodPost, "/api/keys", prodKey, `{"tier":"root"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{api.MsgInvalidTier}, decodeBody[shared.ErrorResponse](t, resp).Errors)
}

func TestRouter_KeysInfoOnlyOutsideProduction(t *testing.T) {
	server := newTestServer(t, testConfig())
	resp := send(t, server, http.MethodGet, "/api/keys-info", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	info := decodeBody[api.KeysInfoResponse](t, resp)
	assert.Contains(t, info.TestKeys, prodKey)

	cfg := testConfig()
	cfg.Server.Environment = config.EnvProduction
	prod := newTestServer(t, cfg)
	resp = send(t, prod, http.MethodGet, "/api/keys-info", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewApplication_WithoutSeeding(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.SeedSamples = false
	server := newTestServer(t, cfg)

	resp := send(t, server, http.MethodGet, "/api/products", devKey, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[api.ProductListResponse](t, resp)
	assert.Equal(t, 0, list.Meta.Total)
	assert.NotNil(t, list.Data)
}
