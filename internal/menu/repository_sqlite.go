package menu

import (
	"context"
	"database/sql"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, item, ingredients string) (*Dish, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO menu (item, ingredients) VALUES (?, ?)`,
		item, ingredients,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Dish{ID: id, Item: item, Ingredients: ingredients}, nil
}

func (r *SQLiteRepository) InsertMany(ctx context.Context, dishes []Dish) (int, error) {
	return r.insertTx(ctx, dishes, false)
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, dishes []Dish) (int, error) {
	return r.insertTx(ctx, dishes, true)
}

func (r *SQLiteRepository) insertTx(ctx context.Context, dishes []Dish, clear bool) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	if clear {
		if _, err := tx.ExecContext(ctx, `DELETE FROM menu`); err != nil {
			return 0, err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO menu (item, ingredients) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, d := range dishes {
		if _, err := stmt.ExecContext(ctx, d.Item, d.Ingredients); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(dishes), nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDishNotFound
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Dish, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, item, ingredients FROM menu ORDER BY id`)
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

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM menu`)
	return err
}
