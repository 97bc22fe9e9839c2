// Package model holds the domain records shared by the repository,
// service and handler layers.
package model

import "github.com/deppfellow/foodreggie/internal/validation"

// Food is a single entry of the food catalog.
//
// Nutrient values are per serving: calories in kcal, macronutrients in grams.
// The same tags serve JSON bodies and HTML form posts, so a client can submit
// either `application/json` or `application/x-www-form-urlencoded`. The db
// tags name the columns of the foods table.
type Food struct {
	ID            int     `json:"food_id" form:"food_id" db:"food_id"`
	Name          string  `json:"name" form:"name" db:"name" validate:"required,max=100"`
	FoodGroup     string  `json:"food_group" form:"food_group" db:"food_group" validate:"required,max=50"`
	Calories      float64 `json:"calories" form:"calories" db:"calories" validate:"gte=0"`
	Protein       float64 `json:"protein" form:"protein" db:"protein" validate:"gte=0"`
	Carbohydrates float64 `json:"carbohydrates" form:"carbohydrates" db:"carbohydrates" validate:"gte=0"`
	Fats          float64 `json:"fats" form:"fats" db:"fats" validate:"gte=0"`
	ImageURL      string  `json:"image_url" form:"image_url" db:"image_url" validate:"omitempty,max=255"`
}

// Validate runs the struct tag rules above.
func (f *Food) Validate() error {
	return validation.Struct(f)
}

// FoodViewModel is the model rendered by the Table view.
type FoodViewModel struct {
	Foods           []Food `json:"foods"`
	CurrentViewName string `json:"current_view_name"`
}

// NewFoodViewModel wraps foods for the named view. A nil slice becomes an
// empty one so the view always receives a list.
func NewFoodViewModel(foods []Food, viewName string) FoodViewModel {
	if foods == nil {
		foods = []Food{}
	}
	return FoodViewModel{Foods: foods, CurrentViewName: viewName}
}
