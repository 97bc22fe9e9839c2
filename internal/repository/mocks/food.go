// Package mocks provides testify mocks of the repository contracts.
package mocks

import (
	"context"

	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/deppfellow/foodreggie/internal/repository"
	"github.com/stretchr/testify/mock"
)

var _ repository.FoodRepository = (*FoodRepository)(nil)

// FoodRepository is a mock repository.FoodRepository.
type FoodRepository struct {
	mock.Mock
}

func (m *FoodRepository) GetAll(ctx context.Context) ([]model.Food, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Food), args.Error(1)
}

func (m *FoodRepository) GetFoodByID(ctx context.Context, id int) (*model.Food, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Food), args.Error(1)
}

func (m *FoodRepository) Create(ctx context.Context, food *model.Food) bool {
	return m.Called(ctx, food).Bool(0)
}

func (m *FoodRepository) Update(ctx context.Context, food *model.Food) bool {
	return m.Called(ctx, food).Bool(0)
}

func (m *FoodRepository) Delete(ctx context.Context, id int) bool {
	return m.Called(ctx, id).Bool(0)
}
