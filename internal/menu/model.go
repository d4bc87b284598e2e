package menu

import (
	"errors"

	"ingrediguard/internal/allergy"
)

var (
	ErrDishNotFound   = errors.New("dish not found")
	ErrInvalidDish    = errors.New("item and ingredients are required")
	ErrMissingColumns = errors.New("menu csv must have item and ingredients columns")
	ErrInvalidCSV     = errors.New("invalid menu csv")
)

// Dish is one stored menu row. Ingredients are kept ", "-joined.
type Dish struct {
	ID          int64  `json:"id"`
	Item        string `json:"item"`
	Ingredients string `json:"ingredients"`
}

// MenuItem converts the row into filter input.
func (d Dish) MenuItem() allergy.MenuItem {
	return allergy.MenuItem{
		Name:        d.Item,
		Ingredients: allergy.IngredientText(d.Ingredients),
	}
}

// Row is one parsed CSV line before it is stored.
type Row struct {
	Item        string   `json:"item"`
	Ingredients []string `json:"ingredients"`
}

// Dish converts the row into a storable dish (without an ID).
func (r Row) Dish() Dish {
	return Dish{
		Item:        r.Item,
		Ingredients: allergy.IngredientList(r.Ingredients...).String(),
	}
}
