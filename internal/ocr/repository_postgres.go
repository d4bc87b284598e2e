package ocr

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postgresUploadColumns = `id, object_key, filename, status, raw_text, error, items_added, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, objectKey, filename string) (*Upload, error) {
	now := time.Now().Unix()
	row := r.db.QueryRow(ctx, `
		INSERT INTO menu_uploads (object_key, filename, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING `+postgresUploadColumns,
		objectKey, filename, StatusUploaded, now,
	)
	return scanPostgresUpload(row)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Upload, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+postgresUploadColumns+` FROM menu_uploads WHERE id = $1`, id)
	u, err := scanPostgresUpload(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	return u, err
}

// --------------------------------------------------
// CLAIM NEXT PENDING UPLOAD (ATOMIC)
// --------------------------------------------------
func (r *PostgresRepository) ClaimNext(ctx context.Context) (*Upload, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE menu_uploads
		SET status = $1, updated_at = $2
		WHERE id = (
			SELECT id FROM menu_uploads
			WHERE status = $3
			ORDER BY created_at, id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+postgresUploadColumns,
		StatusProcessing, time.Now().Unix(), StatusUploaded,
	)

	u, err := scanPostgresUpload(row)
	// No pending jobs is NOT an error
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *PostgresRepository) MarkParsed(ctx context.Context, id int64, rawText string, itemsAdded int) error {
	return r.exec(ctx, `
		UPDATE menu_uploads
		SET status = $1, raw_text = $2, error = NULL, items_added = $3, updated_at = $4
		WHERE id = $5
	`, StatusParsed, rawText, itemsAdded, time.Now().Unix(), id)
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, rawText, reason string) error {
	return r.exec(ctx, `
		UPDATE menu_uploads
		SET status = $1, raw_text = $2, error = $3, updated_at = $4
		WHERE id = $5
	`, StatusFailed, nullable(rawText), reason, time.Now().Unix(), id)
}

func (r *PostgresRepository) Retry(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE menu_uploads
		SET status = $1, error = NULL, updated_at = $2
		WHERE id = $3 AND status = $4
	`, StatusUploaded, time.Now().Unix(), id, StatusFailed)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return ErrNotRetryable
}

func (r *PostgresRepository) ReclaimStale(ctx context.Context, cutoff time.Time, reason string) (int, error) {
	cmd, err := r.db.Exec(ctx, `
		UPDATE menu_uploads
		SET status = $1, error = $2, updated_at = $3
		WHERE status = $4 AND updated_at < $5
	`, StatusFailed, reason, time.Now().Unix(), StatusProcessing, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUploadNotFound
	}
	return nil
}

func scanPostgresUpload(row pgx.Row) (*Upload, error) {
	var (
		u                    Upload
		rawText, errMsg      *string
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.ObjectKey, &u.Filename, &u.Status,
		&rawText, &errMsg, &u.ItemsAdded, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if rawText != nil {
		u.RawText = *rawText
	}
	if errMsg != nil {
		u.Error = *errMsg
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &u, nil
}
