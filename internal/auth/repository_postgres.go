package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const postgresUserColumns = `id, username, password_hash, is_admin, is_active, created_at, last_login`

func (r *PostgresUserRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, password_hash, is_admin, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.IsAdmin, u.IsActive, u.CreatedAt.Unix(),
	).Scan(&u.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	return err
}

func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+postgresUserColumns+` FROM users WHERE username = $1`, username)
	return scanPostgresUser(row)
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+postgresUserColumns+` FROM users WHERE id = $1`, id)
	return scanPostgresUser(row)
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postgresUserColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanPostgresUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// --------------------------------------------------
// Account flags
// --------------------------------------------------

func (r *PostgresUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
}

func (r *PostgresUserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.exec(ctx, `UPDATE users SET is_admin = $1 WHERE id = $2`, admin, id)
}

func (r *PostgresUserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
}

func (r *PostgresUserRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at.Unix(), id)
}

func (r *PostgresUserRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE is_admin AND is_active`).Scan(&n)
	return n, err
}

func (r *PostgresUserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users`)
	return err
}

func (r *PostgresUserRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanPostgresUser(row pgx.Row) (*User, error) {
	var (
		u         User
		createdAt int64
		lastLogin *int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.IsActive, &createdAt, &lastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt = unixTime(createdAt)
	u.LastLogin = unixPtr(lastLogin)
	return &u, nil
}
