package api

import (
	"github.com/phrazzld/products-api/internal/domain"
)

// Common request/response structures

// ProductListResponse is returned by GET /api/products.
type ProductListResponse struct {
	Success bool             `json:"success"`
	Meta    domain.PageMeta  `json:"meta"`
	Data    []domain.Product `json:"data"`
}

// ProductSearchResponse is returned by GET /api/products/search.
type ProductSearchResponse struct {
	Success bool             `json:"success"`
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Data    []domain.Product `json:"data"`
}

// ProductStatsResponse is returned by GET /api/products/stats.
type ProductStatsResponse struct {
	Success    bool           `json:"success"`
	Total      int            `json:"total"`
	InStock    int            `json:"inStock"`
	ByCategory map[string]int `json:"byCategory"`
}

// ProductResponse wraps a single product, with a message on mutations.
type ProductResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    domain.Product `json:"data"`
}

// MessageResponse is a success response without data.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IssueKeyRequest is the payload of POST /api/keys.
type IssueKeyRequest struct {
	Tier string `json:"tier" validate:"omitempty,oneof=production development testing"`
}

// KeyResponse wraps a newly issued key.
type KeyResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    domain.APIKey `json:"data"`
}

// KeyListResponse lists registered keys, masked.
type KeyListResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    []domain.APIKey `json:"data"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// ServiceInfoResponse is returned by GET /.
type ServiceInfoResponse struct {
	Message   string            `json:"message"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
	Features  []string          `json:"features"`
}

// KeysInfoResponse is returned by GET /api/keys-info outside production.
type KeysInfoResponse struct {
	Message  string   `json:"message"`
	TestKeys []string `json:"testKeys"`
	Header   string   `json:"header"`
}
