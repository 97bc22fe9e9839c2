package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/deppfellow/foodreggie/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const foodColumns = "food_id, name, food_group, calories, protein, carbohydrates, fats, image_url"

// FoodPostgresRepository stores foods in Postgres.
type FoodPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewFoodPostgresRepository(pool *pgxpool.Pool) *FoodPostgresRepository {
	return &FoodPostgresRepository{pool: pool}
}

func (r *FoodPostgresRepository) GetAll(ctx context.Context) ([]model.Food, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+foodColumns+` FROM foods ORDER BY food_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}

	foods, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Food])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:foods: %w", err)
	}

	return foods, nil
}

func (r *FoodPostgresRepository) GetFoodByID(ctx context.Context, id int) (*model.Food, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+foodColumns+` FROM foods WHERE food_id = @food_id`,
		pgx.NamedArgs{"food_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query food %d: %w", id, err)
	}

	food, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Food])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("food %d: %w", id, ErrFoodNotFound)
		}
		return nil, fmt.Errorf("failed to collect row from table:foods: %w", err)
	}

	return &food, nil
}

func (r *FoodPostgresRepository) Create(ctx context.Context, food *model.Food) bool {
	stmt := `
		INSERT INTO foods (name, food_group, calories, protein, carbohydrates, fats, image_url)
		VALUES (@name, @food_group, @calories, @protein, @carbohydrates, @fats, @image_url)
		RETURNING food_id
	`

	var id int
	if err := r.pool.QueryRow(ctx, stmt, foodArgs(food)).Scan(&id); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("sql_code", string(sqlerr.Classify(err))).
			Str("food_name", food.Name).
			Msg("failed to create food")
		return false
	}

	food.ID = id
	return true
}

func (r *FoodPostgresRepository) Update(ctx context.Context, food *model.Food) bool {
	stmt := `
		UPDATE foods
		SET name = @name,
			food_group = @food_group,
			calories = @calories,
			protein = @protein,
			carbohydrates = @carbohydrates,
			fats = @fats,
			image_url = @image_url
		WHERE food_id = @food_id
	`

	tag, err := r.pool.Exec(ctx, stmt, foodArgs(food))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("sql_code", string(sqlerr.Classify(err))).
			Int("food_id", food.ID).
			Msg("failed to update food")
		return false
	}

	return tag.RowsAffected() > 0
}

func (r *FoodPostgresRepository) Delete(ctx context.Context, id int) bool {
	tag, err := r.pool.Exec(ctx, `DELETE FROM foods WHERE food_id = @food_id`, pgx.NamedArgs{"food_id": id})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("food_id", id).Msg("failed to delete food")
		return false
	}

	return tag.RowsAffected() > 0
}

func foodArgs(food *model.Food) pgx.NamedArgs {
	return pgx.NamedArgs{
		"food_id":       food.ID,
		"name":          food.Name,
		"food_group":    food.FoodGroup,
		"calories":      food.Calories,
		"protein":       food.Protein,
		"carbohydrates": food.Carbohydrates,
		"fats":          food.Fats,
		"image_url":     food.ImageURL,
	}
}
