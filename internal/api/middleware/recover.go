package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
)

// Recover turns a panic in a later stage into an internal error response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				// ALLOW-PANIC: net/http relies on this sentinel to abort the response
				panic(rec)
			}
			err := domain.NewInternalError(fmt.Errorf("panic: %v", rec))
			shared.RespondWithAPIError(w, r, err, shared.WithStack(debug.Stack()))
		}()
		next.ServeHTTP(w, r)
	})
}
