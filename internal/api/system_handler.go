package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/products-api/internal/api/shared"
	"github.com/phrazzld/products-api/internal/domain"
)

// ServiceName and ServiceVersion identify the service on GET /.
const (
	ServiceName    = "Products API"
	ServiceVersion = "1.0.0"
)

// SystemHandler serves the unauthenticated informational routes.
type SystemHandler struct {
	started      time.Time
	now          func() time.Time
	apiKeyHeader string
	sampleKeys   []string
}

// NewSystemHandler creates a handler that measures uptime from started.
// sampleKeys are advertised by KeysInfo; pass nil to advertise none.
func NewSystemHandler(started time.Time, apiKeyHeader string, sampleKeys []string) *SystemHandler {
	keys := slices.Clone(sampleKeys)
	slices.Sort(keys)
	return &SystemHandler{
		started:      started,
		now:          time.Now,
		apiKeyHeader: apiKeyHeader,
		sampleKeys:   keys,
	}
}

// Root handles GET /.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ServiceInfoResponse{
		Message:   "Welcome to the " + ServiceName,
		Service:   ServiceName,
		Version:   ServiceVersion,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
		Endpoints: map[string]string{
			"root":     "/",
			"health":   "/health",
			"products": "/api/products",
		},
		Features: []string{
			"Structured request logging",
			"JSON body parsing",
			"API key authentication",
			"Request validation",
			"Error handling",
		},
	})
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "success",
		Message:   "Server is healthy and running",
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Uptime:    now.Sub(h.started).Seconds(),
	})
}

// KeysInfo handles GET /api/keys-info, a development aid listing the seed keys.
func (h *SystemHandler) KeysInfo(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, KeysInfoResponse{
		Message:  "For testing, use one of these API keys in the " + h.apiKeyHeader + " header:",
		TestKeys: h.sampleKeys,
		Header:   h.apiKeyHeader + ": YOUR_API_KEY",
	})
}

// NotFound handles unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithAPIError(w, r, domain.NewNotFoundError(MsgRouteNotFound), shared.WithRequestPath())
}

// allowCandidates are the methods reported in the Allow header of a 405.
var allowCandidates = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// MethodNotAllowed returns the handler for known routes called with the wrong
// method. The Allow header lists the methods routes serves for the path.
func MethodNotAllowed(routes chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed := make([]string, 0, len(allowCandidates))
		for _, method := range allowCandidates {
			if routes.Match(chi.NewRouteContext(), method, r.URL.Path) {
				allowed = append(allowed, method)
			}
		}
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		shared.RespondWithAPIError(w, r, domain.NewMethodNotAllowedError(), shared.WithRequestPath())
	}
}
