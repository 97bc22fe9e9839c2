// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update foods, abstracting SQL logic away from the service layer.
//
// Reads report failures as errors. Writes report success as a bool and
// log the underlying error through the request logger carried by ctx.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/foodreggie/internal/model"
)

// ErrFoodNotFound is returned (wrapped) when no food has the requested id.
var ErrFoodNotFound = errors.New("food not found")

// FoodRepository is the storage contract for the food catalog.
type FoodRepository interface {
	// GetAll returns every food ordered by id.
	GetAll(ctx context.Context) ([]model.Food, error)

	// GetFoodByID returns the food with the given id.
	GetFoodByID(ctx context.Context, id int) (*model.Food, error)

	// Create inserts food and sets food.ID from the store. The submitted
	// ID is ignored.
	Create(ctx context.Context, food *model.Food) bool

	// Update overwrites the food with food.ID. It reports false when no
	// such food exists.
	Update(ctx context.Context, food *model.Food) bool

	// Delete removes the food with the given id. It reports false when
	// no such food exists.
	Delete(ctx context.Context, id int) bool
}
