package catalog

import "errors"

var (
	// ErrNotFound is returned when no live product exists for an id.
	ErrNotFound = errors.New("product not found")
	// ErrConflict is returned when a product's slug is already held by a live product.
	ErrConflict = errors.New("slug already exists")
)
