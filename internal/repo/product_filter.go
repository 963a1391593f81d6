package repo

import "github.com/rogerio-castellano/catalog-service/internal/models"

// ProductQuery is the listing predicate plus the result window.
// Nil pointers mean the condition is not applied. Rows are always
// ordered by creation time, newest first.
type ProductQuery struct {
	IsActive *bool
	MinPrice *float64
	MaxPrice *float64
	Offset   int
	Limit    int
}

func matchesQuery(p models.Product, q ProductQuery) bool {
	if p.Deleted() {
		return false
	}
	if q.IsActive != nil && p.IsActive != *q.IsActive {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}
