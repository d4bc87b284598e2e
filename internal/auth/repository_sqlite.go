package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type SQLiteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

const sqliteUserColumns = `id, username, password_hash, is_admin, is_active, created_at, last_login`

func (r *SQLiteUserRepository) Create(ctx context.Context, u *User) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, is_admin, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.Username, u.PasswordHash, u.IsAdmin, u.IsActive, u.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUsernameTaken
		}
		return err
	}

	u.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteUserColumns+` FROM users WHERE username = ?`, username)
	return scanSQLiteUser(row)
}

func (r *SQLiteUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteUserColumns+` FROM users WHERE id = ?`, id)
	return scanSQLiteUser(row)
}

func (r *SQLiteUserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteUserColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *SQLiteUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.exec(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, id)
}

func (r *SQLiteUserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.exec(ctx, `UPDATE users SET is_admin = ? WHERE id = ?`, admin, id)
}

func (r *SQLiteUserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
}

func (r *SQLiteUserRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at.Unix(), id)
}

func (r *SQLiteUserRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE is_admin = 1 AND is_active = 1`).Scan(&n)
	return n, err
}

func (r *SQLiteUserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}

func (r *SQLiteUserRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteUser(row rowScanner) (*User, error) {
	var (
		u         User
		createdAt int64
		lastLogin sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.IsActive, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt = unixTime(createdAt)
	if lastLogin.Valid {
		u.LastLogin = unixPtr(&lastLogin.Int64)
	}
	return &u, nil
}
