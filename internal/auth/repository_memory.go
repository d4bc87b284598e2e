package auth

import (
	"context"
	"sort"
	"sync"
	"time"
)

type InMemoryUserRepository struct {
	mu     sync.Mutex
	users  map[int64]*User
	nextID int64
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[int64]*User),
		nextID: 1,
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}

	u.ID = r.nextID
	r.nextID++
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *InMemoryUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.update(id, func(u *User) { u.IsActive = active })
}

func (r *InMemoryUserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.update(id, func(u *User) { u.IsAdmin = admin })
}

func (r *InMemoryUserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return r.update(id, func(u *User) { u.PasswordHash = hash })
}

func (r *InMemoryUserRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return r.update(id, func(u *User) {
		t := at.UTC().Truncate(time.Second)
		u.LastLogin = &t
	})
}

func (r *InMemoryUserRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, u := range r.users {
		if u.IsAdmin && u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryUserRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[int64]*User)
	return nil
}

func (r *InMemoryUserRepository) update(id int64, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	fn(u)
	return nil
}
