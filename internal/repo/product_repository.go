package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/catalog-service/internal/models"
)

var (
	// ErrProductNotFound is returned when no live product matches a lookup.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicatedValueUnique is returned when a write violates the live-slug uniqueness constraint.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
)

// ProductField names a column that can be used for single-row lookups.
type ProductField string

const (
	FieldID   ProductField = "id"
	FieldSlug ProductField = "slug"
)

// Valid reports whether the field is one of the lookup columns.
func (f ProductField) Valid() bool {
	return f == FieldID || f == FieldSlug
}

// ProductStore defines the persistence operations the catalog relies on.
// Every read is scoped to products that have not been soft-deleted.
type ProductStore interface {
	FindByField(ctx context.Context, field ProductField, value string) (models.Product, error)
	FindAndCount(ctx context.Context, q ProductQuery) ([]models.Product, int, error)
	Insert(ctx context.Context, p models.Product) (models.Product, error)
	Persist(ctx context.Context, p models.Product) (models.Product, error)
	SoftDelete(ctx context.Context, p models.Product) error
}
