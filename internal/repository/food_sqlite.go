package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/deppfellow/foodreggie/internal/sqlerr"
	"github.com/rs/zerolog"
)

// FoodSQLiteRepository stores foods in SQLite.
type FoodSQLiteRepository struct {
	db *sql.DB
}

func NewFoodSQLiteRepository(db *sql.DB) *FoodSQLiteRepository {
	return &FoodSQLiteRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (model.Food, error) {
	var f model.Food
	err := row.Scan(&f.ID, &f.Name, &f.FoodGroup, &f.Calories, &f.Protein, &f.Carbohydrates, &f.Fats, &f.ImageURL)
	return f, err
}

func (r *FoodSQLiteRepository) GetAll(ctx context.Context) ([]model.Food, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+foodColumns+` FROM foods ORDER BY food_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	foods := []model.Food{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row from table:foods: %w", err)
		}
		foods = append(foods, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate foods: %w", err)
	}

	return foods, nil
}

func (r *FoodSQLiteRepository) GetFoodByID(ctx context.Context, id int) (*model.Food, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE food_id = ?`, id)

	f, err := scanFood(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("food %d: %w", id, ErrFoodNotFound)
		}
		return nil, fmt.Errorf("failed to scan row from table:foods: %w", err)
	}

	return &f, nil
}

func (r *FoodSQLiteRepository) Create(ctx context.Context, food *model.Food) bool {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO foods (name, food_group, calories, protein, carbohydrates, fats, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		food.Name, food.FoodGroup, food.Calories, food.Protein, food.Carbohydrates, food.Fats, food.ImageURL,
	)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("sql_code", string(sqlerr.Classify(err))).
			Str("food_name", food.Name).
			Msg("failed to create food")
		return false
	}

	id, err := res.LastInsertId()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("food_name", food.Name).Msg("failed to read created food id")
		return false
	}

	food.ID = int(id)
	return true
}

func (r *FoodSQLiteRepository) Update(ctx context.Context, food *model.Food) bool {
	res, err := r.db.ExecContext(ctx, `
		UPDATE foods
		SET name = ?, food_group = ?, calories = ?, protein = ?, carbohydrates = ?, fats = ?, image_url = ?
		WHERE food_id = ?`,
		food.Name, food.FoodGroup, food.Calories, food.Protein, food.Carbohydrates, food.Fats, food.ImageURL, food.ID,
	)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("sql_code", string(sqlerr.Classify(err))).
			Int("food_id", food.ID).
			Msg("failed to update food")
		return false
	}

	return rowsAffected(ctx, res) > 0
}

func (r *FoodSQLiteRepository) Delete(ctx context.Context, id int) bool {
	res, err := r.db.ExecContext(ctx, `DELETE FROM foods WHERE food_id = ?`, id)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("food_id", id).Msg("failed to delete food")
		return false
	}

	return rowsAffected(ctx, res) > 0
}

func rowsAffected(ctx context.Context, res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to read rows affected")
		return 0
	}
	return n
}
