package catalog

import (
	"context"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/rogerio-castellano/catalog-service/internal/models"
	"github.com/rogerio-castellano/catalog-service/internal/repo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService() (*Service, *repo.InMemoryProductRepository) {
	store := repo.NewInMemoryProductRepository()
	return NewService(store, testLogger()), store
}

func boolPtr(v bool) *bool { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string { return &v }

func mustCreate(t *testing.T, s *Service, name string, price float64) models.Product {
	t.Helper()
	p, err := s.Create(context.Background(), CreateProductInput{Name: name, Price: price})
	require.NoError(t, err)
	return p
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	p, err := s.Create(ctx, CreateProductInput{Name: "Cozy Loft #3!", Description: "Sleeps four", Price: 120})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "cozy-loft-3", p.Slug)
	assert.Equal(t, "Cozy Loft #3!", p.Name)
	assert.Equal(t, "Sleeps four", p.Description)
	assert.Equal(t, 120.0, p.Price)
	assert.True(t, p.IsActive, "products are active by default")
	assert.False(t, p.CreatedAt.IsZero())
	assert.Nil(t, p.DeletedAt)

	inactive, err := s.Create(ctx, CreateProductInput{Name: "Hidden", Price: 1, IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)
}

func TestService_CreateThenFindOne(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	created := mustCreate(t, s, "Round Trip", 9.5)

	found, err := s.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestService_CreateDuplicatedSlug(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService()

	mustCreate(t, s, "Blue Bike", 300)

	_, err := s.Create(ctx, CreateProductInput{Name: "Blue Bike", Price: 310})
	require.ErrorIs(t, err, ErrConflict)

	_, err = s.Create(ctx, CreateProductInput{Name: "blue  BIKE!", Price: 320})
	require.ErrorIs(t, err, ErrConflict, "names deriving the same slug collide")

	assert.Equal(t, 1, store.Count(), "a rejected create must not write a row")
	page, err := s.FindAll(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "blue-bike", page.Items[0].Slug)
}

func TestService_CreateReusesSlugOfRemovedProduct(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	first := mustCreate(t, s, "Blue Bike", 300)
	require.NoError(t, s.Remove(ctx, first.ID))

	second, err := s.Create(ctx, CreateProductInput{Name: "Blue Bike", Price: 280})
	require.NoError(t, err)
	assert.Equal(t, "blue-bike", second.Slug)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestService_CreateEmptySlug(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	p, err := s.Create(ctx, CreateProductInput{Name: "!!!", Price: 1})
	require.NoError(t, err)
	assert.Equal(t, "", p.Slug)

	_, err = s.Create(ctx, CreateProductInput{Name: "???", Price: 1})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_FindAllPagination(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	for i := 1; i <= 25; i++ {
		mustCreate(t, s, fmt.Sprintf("Product %02d", i), float64(i))
	}

	t.Run("defaults", func(t *testing.T) {
		page, err := s.FindAll(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, page.Items, DefaultLimit)
		assert.Equal(t, PageMeta{Total: 25, Page: 1, Limit: 10, TotalPages: 3}, page.Meta)
		assert.Equal(t, "Product 25", page.Items[0].Name, "newest first")
	})

	t.Run("last partial page", func(t *testing.T) {
		page, err := s.FindAll(ctx, ListFilter{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Items, 5)
		assert.Equal(t, "Product 05", page.Items[0].Name)
		assert.Equal(t, "Product 01", page.Items[4].Name)
	})

	t.Run("beyond last page", func(t *testing.T) {
		page, err := s.FindAll(ctx, ListFilter{Page: 9, Limit: 10})
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, 25, page.Meta.Total)
		assert.Equal(t, 3, page.Meta.TotalPages)
	})

	t.Run("window sizes", func(t *testing.T) {
		for _, limit := range []int{1, 4, 7, 25, 30} {
			page, err := s.FindAll(ctx, ListFilter{Page: 2, Limit: limit})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(page.Items), limit)
			assert.Equal(t, (25+limit-1)/limit, page.Meta.TotalPages, "limit %d", limit)
		}
	})
}

func TestService_FindAllHugePage(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()
	for i := 1; i <= 3; i++ {
		mustCreate(t, s, fmt.Sprintf("Product %02d", i), float64(i))
	}

	for _, f := range []ListFilter{
		{Page: math.MaxInt / 10, Limit: 10},
		{Page: math.MaxInt, Limit: 10},
		{Page: math.MaxInt, Limit: 1},
	} {
		page, err := s.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Empty(t, page.Items, "page %d past the end must be empty", f.Page)
		assert.NotNil(t, page.Items)
		assert.Equal(t, 3, page.Meta.Total)
		assert.Equal(t, f.Page, page.Meta.Page)
	}
}

func TestService_FindAllCapsLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()
	for i := 1; i <= MaxLimit+5; i++ {
		mustCreate(t, s, fmt.Sprintf("Product %03d", i), 1)
	}

	page, err := s.FindAll(ctx, ListFilter{Limit: MaxLimit * 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, MaxLimit)
	assert.Equal(t, MaxLimit, page.Meta.Limit)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

func TestService_FindAllEmpty(t *testing.T) {
	s, _ := newTestService()

	page, err := s.FindAll(context.Background(), ListFilter{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, PageMeta{Total: 0, Page: 1, Limit: 5, TotalPages: 0}, page.Meta)
}

func TestService_FindAllFilters(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	prices := []float64{5, 10, 15, 20, 25, 30}
	for i, price := range prices {
		_, err := s.Create(ctx, CreateProductInput{
			Name:     fmt.Sprintf("Item %d", i),
			Price:    price,
			IsActive: boolPtr(i%2 == 0),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		filter    ListFilter
		wantTotal int
		check     func(models.Product) bool
	}{
		{"no filter", ListFilter{}, 6, func(models.Product) bool { return true }},
		{"price range", ListFilter{MinPrice: floatPtr(10), MaxPrice: floatPtr(20)}, 3,
			func(p models.Product) bool { return p.Price >= 10 && p.Price <= 20 }},
		{"min price only", ListFilter{MinPrice: floatPtr(25)}, 2,
			func(p models.Product) bool { return p.Price >= 25 }},
		{"max price only", ListFilter{MaxPrice: floatPtr(5)}, 1,
			func(p models.Product) bool { return p.Price <= 5 }},
		{"inverted range", ListFilter{MinPrice: floatPtr(20), MaxPrice: floatPtr(10)}, 0,
			func(models.Product) bool { return false }},
		{"active only", ListFilter{IsActive: boolPtr(true)}, 3,
			func(p models.Product) bool { return p.IsActive }},
		{"inactive only", ListFilter{IsActive: boolPtr(false)}, 3,
			func(p models.Product) bool { return !p.IsActive }},
		{"inactive in range", ListFilter{IsActive: boolPtr(false), MinPrice: floatPtr(10), MaxPrice: floatPtr(30)}, 3,
			func(p models.Product) bool { return !p.IsActive && p.Price >= 10 && p.Price <= 30 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.FindAll(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Meta.Total)
			assert.Len(t, page.Items, tt.wantTotal)
			for _, p := range page.Items {
				assert.True(t, tt.check(p), "unexpected product %s (price %v, active %v)", p.Name, p.Price, p.IsActive)
			}
		})
	}
}

func TestService_FindOneNotFound(t *testing.T) {
	s, _ := newTestService()

	_, err := s.FindOne(context.Background(), "8b0a7d34-1f0e-4a43-9d7e-2f7f6a1d2c11")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	t.Run("renaming regenerates slug", func(t *testing.T) {
		p := mustCreate(t, s, "Old Name", 10)

		updated, err := s.Update(ctx, p.ID, UpdateProductInput{Name: stringPtr("New Name!")})
		require.NoError(t, err)
		assert.Equal(t, "New Name!", updated.Name)
		assert.Equal(t, "new-name", updated.Slug)
		assert.Equal(t, 10.0, updated.Price)
		assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	})

	t.Run("other fields keep slug", func(t *testing.T) {
		p := mustCreate(t, s, "Steady Slug", 10)

		updated, err := s.Update(ctx, p.ID, UpdateProductInput{
			Price:       floatPtr(12.5),
			IsActive:    boolPtr(false),
			Description: stringPtr("now with a description"),
		})
		require.NoError(t, err)
		assert.Equal(t, "steady-slug", updated.Slug)
		assert.Equal(t, "Steady Slug", updated.Name)
		assert.Equal(t, 12.5, updated.Price)
		assert.False(t, updated.IsActive)
		assert.Equal(t, "now with a description", updated.Description)

		found, err := s.FindOne(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, found)
	})

	t.Run("same name keeps slug", func(t *testing.T) {
		p := mustCreate(t, s, "Same Name", 10)

		updated, err := s.Update(ctx, p.ID, UpdateProductInput{Name: stringPtr("Same Name")})
		require.NoError(t, err)
		assert.Equal(t, "same-name", updated.Slug)
	})

	t.Run("empty patch", func(t *testing.T) {
		p := mustCreate(t, s, "Untouched", 3)

		updated, err := s.Update(ctx, p.ID, UpdateProductInput{})
		require.NoError(t, err)
		assert.Equal(t, p.Name, updated.Name)
		assert.Equal(t, p.Slug, updated.Slug)
		assert.Equal(t, p.Price, updated.Price)
		assert.Equal(t, p.IsActive, updated.IsActive)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Update(ctx, "0d8f8a0e-7f2c-4d0a-a7b4-4b8b3f5f6e01", UpdateProductInput{Name: stringPtr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rename onto a live slug is rejected by the store", func(t *testing.T) {
		mustCreate(t, s, "Taken", 1)
		p := mustCreate(t, s, "Free", 1)

		_, err := s.Update(ctx, p.ID, UpdateProductInput{Name: stringPtr("taken")})
		assert.ErrorIs(t, err, ErrConflict)

		found, err := s.FindOne(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "free", found.Slug)
	})
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService()

	gone := mustCreate(t, s, "Gone", 15)
	kept := mustCreate(t, s, "Kept", 15)

	require.NoError(t, s.Remove(ctx, gone.ID))

	_, err := s.FindOne(ctx, gone.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, store.Count(), "soft delete keeps the row")

	filters := []ListFilter{
		{},
		{IsActive: boolPtr(true)},
		{IsActive: boolPtr(false)},
		{MinPrice: floatPtr(15)},
		{MaxPrice: floatPtr(15)},
		{MinPrice: floatPtr(0), MaxPrice: floatPtr(100)},
		{Page: 1, Limit: 1},
		{Page: 2, Limit: 1},
	}
	for _, f := range filters {
		page, err := s.FindAll(ctx, f)
		require.NoError(t, err)
		for _, p := range page.Items {
			assert.NotEqual(t, gone.ID, p.ID, "removed product listed with filter %+v", f)
		}
		assert.LessOrEqual(t, page.Meta.Total, 1)
	}

	found, err := s.FindOne(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, kept.ID, found.ID)

	assert.ErrorIs(t, s.Remove(ctx, gone.ID), ErrNotFound, "removing twice")
	_, err = s.Update(ctx, gone.ID, UpdateProductInput{Price: floatPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	mustCreate(t, s, "One", 1)
	mustCreate(t, s, "Two", 2)
	_, err := s.Create(ctx, CreateProductInput{Name: "Three", Price: 3, IsActive: boolPtr(false)})
	require.NoError(t, err)
	removed := mustCreate(t, s, "Four", 4)
	require.NoError(t, s.Remove(ctx, removed.ID))

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, CatalogSummary{TotalProducts: 3, ActiveProducts: 2, InactiveProducts: 1}, sum)
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()

	res := s.Import(ctx, []ImportRow{
		{Row: 2, Product: CreateProductInput{Name: "Desk", Price: 150}},
		{Row: 3, Product: CreateProductInput{Name: "Chair", Price: 80}},
		{Row: 4, Product: CreateProductInput{Name: "desk", Price: 160}},
	})

	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Equal(t, "desk", res.Errors[0].Name)
	assert.Contains(t, res.Errors[0].Error, "slug already exists")
}
