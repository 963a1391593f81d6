package catalog

import "github.com/rogerio-castellano/catalog-service/internal/models"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// CreateProductInput carries the fields accepted when creating a product.
// IsActive defaults to true when nil.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	IsActive    *bool
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	IsActive    *bool
}

// ListFilter selects a page of live products. Nil filters are not applied.
type ListFilter struct {
	Page     int
	Limit    int
	IsActive *bool
	MinPrice *float64
	MaxPrice *float64
}

type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

type ProductPage struct {
	Items []models.Product `json:"items"`
	Meta  PageMeta         `json:"meta"`
}

type CatalogSummary struct {
	TotalProducts    int `json:"total_products"`
	ActiveProducts   int `json:"active_products"`
	InactiveProducts int `json:"inactive_products"`
}

type ImportError struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type ImportResult struct {
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors"`
}

// ImportRow is one product to import together with its position in the source file.
type ImportRow struct {
	Row     int
	Product CreateProductInput
}
