package menu

import "context"

// Repository is the single-table menu store.
// Service depends ONLY on this interface.
type Repository interface {
	// Add inserts one dish and returns it with its new ID.
	Add(ctx context.Context, item, ingredients string) (*Dish, error)

	// InsertMany inserts dishes in one transaction.
	InsertMany(ctx context.Context, dishes []Dish) (int, error)

	// ReplaceAll clears the menu and inserts dishes in one transaction.
	ReplaceAll(ctx context.Context, dishes []Dish) (int, error)

	// Delete removes a dish; ErrDishNotFound if there is none.
	Delete(ctx context.Context, id int64) error

	// List returns every dish ordered by ID.
	List(ctx context.Context) ([]Dish, error)

	Clear(ctx context.Context) error
}
