package menu

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// ADD ONE DISH
// --------------------------------------------------
func (r *PostgresRepository) Add(
	ctx context.Context,
	item string,
	ingredients string,
) (*Dish, error) {

	dish := &Dish{Item: item, Ingredients: ingredients}

	err := r.db.QueryRow(ctx, `
		INSERT INTO menu (item, ingredients)
		VALUES ($1, $2)
		RETURNING id
	`, item, ingredients).Scan(&dish.ID)
	if err != nil {
		return nil, err
	}

	return dish, nil
}

// --------------------------------------------------
// BULK INSERT (ATOMIC)
// --------------------------------------------------
func (r *PostgresRepository) InsertMany(ctx context.Context, dishes []Dish) (int, error) {
	return r.insertTx(ctx, dishes, false)
}

// --------------------------------------------------
// REPLACE WHOLE MENU (ATOMIC)
// --------------------------------------------------
func (r *PostgresRepository) ReplaceAll(ctx context.Context, dishes []Dish) (int, error) {
	return r.insertTx(ctx, dishes, true)
}

func (r *PostgresRepository) insertTx(
	ctx context.Context,
	dishes []Dish,
	clear bool,
) (int, error) {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if clear {
		if _, err := tx.Exec(ctx, `DELETE FROM menu`); err != nil {
			return 0, err
		}
	}

	if len(dishes) > 0 {
		batch := &pgx.Batch{}
		for _, d := range dishes {
			batch.Queue(`INSERT INTO menu (item, ingredients) VALUES ($1, $2)`, d.Item, d.Ingredients)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(dishes), nil
}

// --------------------------------------------------
// DELETE
// --------------------------------------------------
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM menu WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrDishNotFound
	}

	return nil
}

// --------------------------------------------------
// LIST
// --------------------------------------------------
func (r *PostgresRepository) List(ctx context.Context) ([]Dish, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item, ingredients
		FROM menu
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []Dish{}
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.Item, &d.Ingredients); err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}

	return dishes, rows.Err()
}

// --------------------------------------------------
// CLEAR
// --------------------------------------------------
func (r *PostgresRepository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM menu`)
	return err
}
