package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rogerio-castellano/catalog-service/internal/models"
	"github.com/rogerio-castellano/catalog-service/internal/repo"
	"github.com/sirupsen/logrus"
)

// Service implements the product catalog rules on top of a ProductStore.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	store repo.ProductStore
	log   *logrus.Logger
}

func NewService(store repo.ProductStore, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Create stores a new product under the slug derived from its name.
// The slug lookup is only an early reject; the store's unique constraint
// decides concurrent creates.
func (s *Service) Create(ctx context.Context, in CreateProductInput) (models.Product, error) {
	slug := Slugify(in.Name)

	_, err := s.store.FindByField(ctx, repo.FieldSlug, slug)
	switch {
	case err == nil:
		s.log.WithField("slug", slug).Warn("rejecting product with existing slug")
		return models.Product{}, fmt.Errorf("%w: %q", ErrConflict, slug)
	case !errors.Is(err, repo.ErrProductNotFound):
		return models.Product{}, err
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	created, err := s.store.Insert(ctx, models.Product{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		IsActive:    isActive,
	})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		s.log.WithField("slug", slug).Warn("store rejected duplicated slug")
		return models.Product{}, fmt.Errorf("%w: %q", ErrConflict, slug)
	}
	if err != nil {
		return models.Product{}, err
	}

	s.log.WithFields(logrus.Fields{"product_id": created.ID, "slug": created.Slug}).Info("product created")
	return created, nil
}

// FindAll returns one page of live products matching the filter, newest first.
// Limit is capped at MaxLimit.
func (s *Service) FindAll(ctx context.Context, f ListFilter) (ProductPage, error) {
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := repo.ProductQuery{
		IsActive: f.IsActive,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
		Limit:    limit,
	}
	offset, ok := pageOffset(page, limit)
	if ok {
		q.Offset = offset
	} else {
		// the window starts past any countable row; only the total is needed
		q.Limit = 1
	}

	items, total, err := s.store.FindAndCount(ctx, q)
	if err != nil {
		return ProductPage{}, err
	}
	if items == nil || !ok {
		items = []models.Product{}
	}

	return ProductPage{
		Items: items,
		Meta: PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// pageOffset returns (page-1)*limit, or false when it does not fit in an int.
func pageOffset(page, limit int) (int, bool) {
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// FindOne returns the live product with the given id.
func (s *Service) FindOne(ctx context.Context, id string) (models.Product, error) {
	p, err := s.store.FindByField(ctx, repo.FieldID, id)
	if errors.Is(err, repo.ErrProductNotFound) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

// Update applies the provided fields to the product. A changed name
// regenerates the slug.
//
// The new slug is not checked against other products before writing; only
// the store's unique constraint can reject it. Whether update should
// pre-check like Create does is still an open product decision.
func (s *Service) Update(ctx context.Context, id string, patch UpdateProductInput) (models.Product, error) {
	p, err := s.FindOne(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if patch.Name != nil && *patch.Name != p.Name {
		p.Name = *patch.Name
		p.Slug = Slugify(p.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}

	updated, err := s.store.Persist(ctx, p)
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		return models.Product{}, ErrNotFound
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		s.log.WithFields(logrus.Fields{"product_id": id, "slug": p.Slug}).Warn("store rejected duplicated slug on update")
		return models.Product{}, fmt.Errorf("%w: %q", ErrConflict, p.Slug)
	case err != nil:
		return models.Product{}, err
	}

	s.log.WithField("product_id", id).Debug("product updated")
	return updated, nil
}

// Remove soft-deletes the product with the given id.
func (s *Service) Remove(ctx context.Context, id string) error {
	p, err := s.FindOne(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.SoftDelete(ctx, p)
	if errors.Is(err, repo.ErrProductNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.log.WithField("product_id", id).Info("product removed")
	return nil
}

// Summary counts live products by activity flag.
func (s *Service) Summary(ctx context.Context) (CatalogSummary, error) {
	active, inactive := true, false

	var sum CatalogSummary
	counts := []struct {
		dst      *int
		isActive *bool
	}{
		{&sum.TotalProducts, nil},
		{&sum.ActiveProducts, &active},
		{&sum.InactiveProducts, &inactive},
	}
	for _, c := range counts {
		_, total, err := s.store.FindAndCount(ctx, repo.ProductQuery{IsActive: c.isActive, Limit: 1})
		if err != nil {
			return CatalogSummary{}, err
		}
		*c.dst = total
	}
	return sum, nil
}

// Import creates each row in order. A failing row is recorded and does not
// stop the remaining rows.
func (s *Service) Import(ctx context.Context, rows []ImportRow) ImportResult {
	res := ImportResult{Errors: []ImportError{}}
	for _, row := range rows {
		if _, err := s.Create(ctx, row.Product); err != nil {
			res.Errors = append(res.Errors, ImportError{Row: row.Row, Name: row.Product.Name, Error: err.Error()})
			continue
		}
		res.Imported++
	}
	return res
}
