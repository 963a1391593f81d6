package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/catalog-service/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductStore.
// Soft-deleted products are kept in the slice so that they behave like
// retained rows in a database.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []memoryRow
	seq      int
	now      func() time.Time
}

type memoryRow struct {
	product models.Product
	seq     int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []memoryRow{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FindByField returns the live product whose field equals value.
func (r *InMemoryProductRepository) FindByField(_ context.Context, field ProductField, value string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.products {
		p := row.product
		if p.Deleted() {
			continue
		}
		if (field == FieldID && p.ID == value) || (field == FieldSlug && p.Slug == value) {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// FindAndCount returns the requested window of live products matching q and
// the total number of matches.
func (r *InMemoryProductRepository) FindAndCount(_ context.Context, q ProductQuery) ([]models.Product, int, error) {
	r.mu.RLock()
	var filtered []memoryRow
	for _, row := range r.products {
		if matchesQuery(row.product, q) {
			filtered = append(filtered, row)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := len(filtered)
	start := clamp(q.Offset, 0, total)
	end := total
	if q.Limit > 0 {
		end = clamp(start+q.Limit, start, total)
	}

	products := make([]models.Product, 0, end-start)
	for _, row := range filtered[start:end] {
		products = append(products, row.product)
	}
	return products, total, nil
}

// Insert adds a new product, assigning its ID and timestamps.
func (r *InMemoryProductRepository) Insert(_ context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(p.Slug, "") {
		return models.Product{}, ErrDuplicatedValueUnique
	}

	now := r.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.DeletedAt = nil

	r.seq++
	r.products = append(r.products, memoryRow{product: p, seq: r.seq})
	return p, nil
}

// Persist overwrites a live product in place.
func (r *InMemoryProductRepository) Persist(_ context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, row := range r.products {
		if row.product.ID != p.ID || row.product.Deleted() {
			continue
		}
		if r.slugTaken(p.Slug, p.ID) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		p.CreatedAt = row.product.CreatedAt
		p.UpdatedAt = r.now()
		p.DeletedAt = nil
		r.products[i].product = p
		return p, nil
	}
	return models.Product{}, ErrProductNotFound
}

// SoftDelete marks a live product as deleted.
func (r *InMemoryProductRepository) SoftDelete(_ context.Context, p models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, row := range r.products {
		if row.product.ID == p.ID && !row.product.Deleted() {
			now := r.now()
			r.products[i].product.DeletedAt = &now
			return nil
		}
	}
	return ErrProductNotFound
}

// Count returns the number of stored rows, soft-deleted ones included.
func (r *InMemoryProductRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

// slugTaken must be called with the lock held.
func (r *InMemoryProductRepository) slugTaken(slug, exceptID string) bool {
	for _, row := range r.products {
		if row.product.Deleted() || row.product.ID == exceptID {
			continue
		}
		if row.product.Slug == slug {
			return true
		}
	}
	return false
}
