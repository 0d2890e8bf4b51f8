package middleware

import (
	"errors"
	"net/http"

	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
)

// DecodeJSONBody decodes the body of POST, PUT and PATCH requests into a map
// stored in the request context (see shared.BodyFromContext). Bodies not
// declared as JSON are treated as empty. A body that is not a JSON object,
// or is larger than maxBytes, is rejected as a malformed payload before any
// later stage runs.
func DecodeJSONBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			body := map[string]any{}
			if shared.IsJSONContent(r) {
				decoded, err := shared.DecodeObject(http.MaxBytesReader(w, r.Body, maxBytes+1), maxBytes)
				if err != nil {
					detail := "Malformed JSON in request body"
					if errors.Is(err, shared.ErrBodyTooLarge) {
						detail = "Request body exceeds the size limit"
					}
					shared.RespondWithAPIError(w, r, domain.NewMalformedPayloadError(err).WithDetail(detail))
					return
				}
				body = decoded
			}

			next.ServeHTTP(w, r.WithContext(shared.WithBody(r.Context(), body)))
		})
	}
}
