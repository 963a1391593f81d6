package handlers

import (
	"time"

	"github.com/rogerio-castellano/catalog-service/internal/catalog"
	"github.com/rogerio-castellano/catalog-service/internal/models"
)

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateProductRequest is a partial update. Omitted fields keep their value.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

type ProductsPageResult struct {
	Items []ProductResponse `json:"items"`
	Meta  Meta              `json:"meta"`
}

type CatalogMetricsResult struct {
	TotalProducts    int `json:"total_products"`
	ActiveProducts   int `json:"active_products"`
	InactiveProducts int `json:"inactive_products"`
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type ImportProductsResult struct {
	ImportedProductsCount int              `json:"imported"`
	Errors                []ImportRowError `json:"errors"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPageResult(page catalog.ProductPage) ProductsPageResult {
	resp := ProductsPageResult{
		Items: make([]ProductResponse, len(page.Items)),
		Meta: Meta{
			Total:      page.Meta.Total,
			Page:       page.Meta.Page,
			Limit:      page.Meta.Limit,
			TotalPages: page.Meta.TotalPages,
		},
	}
	for i, p := range page.Items {
		resp.Items[i] = toProductResponse(p)
	}
	return resp
}
