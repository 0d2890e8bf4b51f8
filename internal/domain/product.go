package domain

import (
	"github.com/go-playground/validator/v10"
)

// Field limits for products.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	MaxCategoryLength    = 50
	MaxPrice             = 1_000_000

	// UncategorizedBucket is the stats bucket for products without a category.
	UncategorizedBucket = "Uncategorized"
)

var productValidate = validator.New()

// Product represents a sellable item in the catalog.
type Product struct {
	ID          string  `json:"id"          validate:"required"`
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=1000"`
	Price       float64 `json:"price"       validate:"gte=0,lte=1000000"`
	Category    string  `json:"category"    validate:"required,max=50"`
	InStock     bool    `json:"inStock"`
}

// Validate checks the stored-record invariants. Payloads are checked by
// ValidateCreate and ValidateUpdate; this guards the store against
// programming errors that bypass them.
func (p *Product) Validate() error {
	return productValidate.Struct(p)
}

// ProductInput is a sanitized create payload.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

// ProductPatch is a sanitized update payload. Nil fields were not supplied.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.InStock == nil
}

// Apply returns a copy of product with the supplied fields replaced.
// The ID is never touched.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.InStock != nil {
		product.InStock = *p.InStock
	}
	return product
}

// ProductFilter narrows a product listing. Empty fields are ignored.
type ProductFilter struct {
	Category string
	Search   string
}

// PageMeta describes a page of results.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is a slice of products plus its pagination metadata.
type Page struct {
	Data []Product
	Meta PageMeta
}

// ProductStats aggregates the catalog.
type ProductStats struct {
	Total      int            `json:"total"`
	InStock    int            `json:"inStock"`
	ByCategory map[string]int `json:"byCategory"`
}
