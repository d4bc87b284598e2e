package ocr

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const sqliteUploadColumns = `id, object_key, filename, status, raw_text, error, items_added, created_at, updated_at`

func (r *SQLiteRepository) Create(ctx context.Context, objectKey, filename string) (*Upload, error) {
	now := r.now().Unix()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_uploads (object_key, filename, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, objectKey, filename, StatusUploaded, now, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*Upload, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteUploadColumns+` FROM menu_uploads WHERE id = ?`, id)
	u, err := scanUpload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	return u, err
}

// ClaimNext is a single UPDATE so concurrent workers never claim the same row.
func (r *SQLiteRepository) ClaimNext(ctx context.Context) (*Upload, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE menu_uploads
		SET status = ?, updated_at = ?
		WHERE id = (
			SELECT id FROM menu_uploads
			WHERE status = ?
			ORDER BY created_at, id
			LIMIT 1
		) AND status = ?
		RETURNING `+sqliteUploadColumns,
		StatusProcessing, r.now().Unix(), StatusUploaded, StatusUploaded,
	)
	u, err := scanUpload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *SQLiteRepository) MarkParsed(ctx context.Context, id int64, rawText string, itemsAdded int) error {
	return r.exec(ctx, `
		UPDATE menu_uploads
		SET status = ?, raw_text = ?, error = NULL, items_added = ?, updated_at = ?
		WHERE id = ?
	`, StatusParsed, rawText, itemsAdded, r.now().Unix(), id)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, rawText, reason string) error {
	return r.exec(ctx, `
		UPDATE menu_uploads
		SET status = ?, raw_text = ?, error = ?, updated_at = ?
		WHERE id = ?
	`, StatusFailed, nullable(rawText), reason, r.now().Unix(), id)
}

func (r *SQLiteRepository) Retry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_uploads
		SET status = ?, error = NULL, updated_at = ?
		WHERE id = ? AND status = ?
	`, StatusUploaded, r.now().Unix(), id, StatusFailed)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return ErrNotRetryable
}

func (r *SQLiteRepository) ReclaimStale(ctx context.Context, cutoff time.Time, reason string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_uploads
		SET status = ?, error = ?, updated_at = ?
		WHERE status = ? AND updated_at < ?
	`, StatusFailed, reason, r.now().Unix(), StatusProcessing, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUploadNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUpload(row rowScanner) (*Upload, error) {
	var (
		u                    Upload
		rawText, errMsg      sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.ObjectKey, &u.Filename, &u.Status,
		&rawText, &errMsg, &u.ItemsAdded, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	u.RawText = rawText.String
	u.Error = errMsg.String
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
