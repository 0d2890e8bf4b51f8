package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/service/auth"
)

// KeyAuthenticator resolves a presented credential to a registered key.
type KeyAuthenticator interface {
	Authenticate(ctx context.Context, credential string) (domain.APIKey, error)
}

// APIKeyAuth authenticates requests by API key.
type APIKeyAuth struct {
	authenticator KeyAuthenticator
	header        string
}

// NewAPIKeyAuth reads the credential from header, falling back to Authorization.
func NewAPIKeyAuth(authenticator KeyAuthenticator, header string) *APIKeyAuth {
	if authenticator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authenticator cannot be nil for APIKeyAuth")
	}
	if header == "" {
		header = "X-API-Key"
	}
	return &APIKeyAuth{authenticator: authenticator, header: header}
}

// Authenticate rejects requests without a registered key and stores the key
// in the request context for later stages.
func (m *APIKeyAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential := r.Header.Get(m.header)
		if credential == "" {
			credential = r.Header.Get("Authorization")
		}

		key, err := m.authenticator.Authenticate(r.Context(), credential)
		if err != nil {
			if errors.Is(err, auth.ErrMissingKey) {
				err = domain.AsError(err).WithDetail(fmt.Sprintf(
					"Missing API key. Please provide %s in headers or Authorization header", m.header))
			}
			shared.RespondWithAPIError(w, r, err, shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithAPIKey(r.Context(), key)))
	})
}

// RequireProductionKey only lets production-tier keys through. It must run
// after Authenticate.
func RequireProductionKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := shared.APIKeyFromContext(r.Context())
		if !ok {
			shared.RespondWithAPIError(w, r,
				domain.NewInternalError(errors.New("tier check ran before authentication")))
			return
		}
		if err := auth.RequireTier(key); err != nil {
			shared.RespondWithAPIError(w, r, err, shared.WithElevatedLogLevel())
			return
		}
		next.ServeHTTP(w, r)
	})
}
