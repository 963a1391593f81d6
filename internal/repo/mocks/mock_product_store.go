package mocks

import (
	"context"

	"github.com/rogerio-castellano/catalog-service/internal/models"
	"github.com/rogerio-castellano/catalog-service/internal/repo"
	"github.com/stretchr/testify/mock"
)

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindByField(ctx context.Context, field repo.ProductField, value string) (models.Product, error) {
	args := m.Called(ctx, field, value)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockProductStore) FindAndCount(ctx context.Context, q repo.ProductQuery) ([]models.Product, int, error) {
	args := m.Called(ctx, q)
	if res := args.Get(0); res != nil {
		return res.([]models.Product), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockProductStore) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockProductStore) Persist(ctx context.Context, p models.Product) (models.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockProductStore) SoftDelete(ctx context.Context, p models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
