package menu

import (
	"context"
	"sync"
)

type InMemoryRepository struct {
	mu     sync.Mutex
	dishes []Dish
	nextID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Add(ctx context.Context, item, ingredients string) (*Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.appendLocked(Dish{Item: item, Ingredients: ingredients})
	return &d, nil
}

func (r *InMemoryRepository) InsertMany(ctx context.Context, dishes []Dish) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range dishes {
		r.appendLocked(d)
	}
	return len(dishes), nil
}

func (r *InMemoryRepository) ReplaceAll(ctx context.Context, dishes []Dish) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dishes = nil
	for _, d := range dishes {
		r.appendLocked(d)
	}
	return len(dishes), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, d := range r.dishes {
		if d.ID == id {
			r.dishes = append(r.dishes[:i], r.dishes[i+1:]...)
			return nil
		}
	}
	return ErrDishNotFound
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Dish, len(r.dishes))
	copy(out, r.dishes)
	return out, nil
}

func (r *InMemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dishes = nil
	return nil
}

func (r *InMemoryRepository) appendLocked(d Dish) Dish {
	d.ID = r.nextID
	r.nextID++
	r.dishes = append(r.dishes, d)
	return d
}
