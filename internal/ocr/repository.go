package ocr

import (
	"context"
	"time"
)

// Repository persists the upload queue.
type Repository interface {
	Create(ctx context.Context, objectKey, filename string) (*Upload, error)
	Get(ctx context.Context, id int64) (*Upload, error)

	// ClaimNext moves the oldest MENU_UPLOADED row to OCR_PROCESSING and
	// returns it. It returns (nil, nil) when the queue is empty.
	ClaimNext(ctx context.Context) (*Upload, error)

	MarkParsed(ctx context.Context, id int64, rawText string, itemsAdded int) error
	MarkFailed(ctx context.Context, id int64, rawText, reason string) error

	// Retry puts a FAILED upload back in the queue.
	Retry(ctx context.Context, id int64) error

	// ReclaimStale marks OCR_PROCESSING rows last touched before cutoff as
	// FAILED with reason, so they can be retried. It returns how many rows
	// it changed.
	ReclaimStale(ctx context.Context, cutoff time.Time, reason string) (int, error)
}
