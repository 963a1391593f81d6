package models

import "time"

// Product represents a sellable item in the catalog.
// A non-nil DeletedAt marks the product as soft-deleted.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the product has been soft-deleted.
func (p Product) Deleted() bool {
	return p.DeletedAt != nil
}
