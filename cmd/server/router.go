package main

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/products-api/internal/api"
	apiMiddleware "github.com/phrazzld/products-api/internal/api/middleware"
	"github.com/phrazzld/products-api/internal/service/auth"
)

// setupRouter creates and configures the application router with all routes and middleware.
// The pipeline order is fixed: request ids, tracing, request logging,
// recovery, security headers, body decoding, then per-route authentication.
func (app *application) setupRouter() http.Handler {
	serverCfg := app.config.Server
	development := !serverCfg.IsProduction()
	apiKeyHeader := app.config.Auth.APIKeyHeader

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.RequestLogger(development))
	r.Use(apiMiddleware.DebugErrors(development))
	r.Use(apiMiddleware.Recover)
	r.Use(apiMiddleware.SecurityHeaders(apiKeyHeader))
	r.Use(apiMiddleware.DecodeJSONBody(serverCfg.MaxBodyBytes))

	// Set before any Route call so sub-routers inherit them.
	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed(r))

	systemHandler := api.NewSystemHandler(app.started, apiKeyHeader, sampleKeys())
	productHandler := api.NewProductHandler(app.products, app.logger)
	keyHandler := api.NewKeyHandler(app.keys, app.logger)
	keyAuth := apiMiddleware.NewAPIKeyAuth(app.keys, apiKeyHeader)

	r.Get("/", systemHandler.Root)
	r.Get("/health", systemHandler.Health)

	r.Route("/api", func(r chi.Router) {
		if development {
			r.Get("/keys-info", systemHandler.KeysInfo)
		}

		r.Route("/products", func(r chi.Router) {
			r.Use(keyAuth.Authenticate)

			r.Get("/", productHandler.List)
			r.Get("/search", productHandler.Search)
			r.Get("/stats", productHandler.Stats)
			r.Get("/{id}", productHandler.Get)
			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.With(apiMiddleware.RequireProductionKey).Delete("/{id}", productHandler.Delete)
		})

		r.Route("/keys", func(r chi.Router) {
			r.Use(keyAuth.Authenticate)
			r.Use(apiMiddleware.RequireProductionKey)

			r.Get("/", keyHandler.List)
			r.Post("/", keyHandler.Issue)
		})
	})

	return r
}

// sampleKeys lists the seed keys advertised by /api/keys-info.
func sampleKeys() []string {
	seed := auth.SeedKeys()
	keys := make([]string, 0, len(seed))
	for k := range seed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
