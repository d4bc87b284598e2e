package ocr

import (
	"context"
	"sync"
	"time"
)

type InMemoryRepository struct {
	mu      sync.Mutex
	uploads []*Upload
	nextID  int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(ctx context.Context, objectKey, filename string) (*Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Second)
	u := &Upload{
		ID:        r.nextID,
		ObjectKey: objectKey,
		Filename:  filename,
		Status:    StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.uploads = append(r.uploads, u)

	out := *u
	return &out, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return nil, ErrUploadNotFound
	}
	out := *u
	return &out, nil
}

func (r *InMemoryRepository) ClaimNext(ctx context.Context) (*Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.uploads {
		if u.Status == StatusUploaded {
			u.Status = StatusProcessing
			u.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) MarkParsed(ctx context.Context, id int64, rawText string, itemsAdded int) error {
	return r.update(id, func(u *Upload) {
		u.Status = StatusParsed
		u.RawText = rawText
		u.Error = ""
		u.ItemsAdded = itemsAdded
	})
}

func (r *InMemoryRepository) MarkFailed(ctx context.Context, id int64, rawText, reason string) error {
	return r.update(id, func(u *Upload) {
		u.Status = StatusFailed
		u.RawText = rawText
		u.Error = reason
	})
}

func (r *InMemoryRepository) Retry(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return ErrUploadNotFound
	}
	if u.Status != StatusFailed {
		return ErrNotRetryable
	}
	u.Status = StatusUploaded
	u.Error = ""
	return nil
}

func (r *InMemoryRepository) ReclaimStale(ctx context.Context, cutoff time.Time, reason string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, u := range r.uploads {
		if u.Status == StatusProcessing && u.UpdatedAt.Before(cutoff) {
			u.Status = StatusFailed
			u.Error = reason
			u.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) update(id int64, fn func(*Upload)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return ErrUploadNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return nil
}

func (r *InMemoryRepository) find(id int64) *Upload {
	for _, u := range r.uploads {
		if u.ID == id {
			return u
		}
	}
	return nil
}
