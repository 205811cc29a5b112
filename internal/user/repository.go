package user

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when the username is already taken.
	ErrConflict = errors.New("username already exists")
)

type Repository interface {
	// Create stores u and returns it with its assigned ID.
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	List(ctx context.Context) ([]User, error)
	SaveProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, userID int64) (Profile, error)
}

type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[int64]User
	profiles map[int64]Profile
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[int64]User),
		profiles: make(map[int64]Profile),
		nextID:   1,
	}
}

// Create keeps a non-zero u.ID as given, otherwise assigns the next id.
func (r *MemoryRepository) Create(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username {
			return User{}, ErrConflict
		}
	}

	if u.ID == 0 {
		u.ID = r.nextID
	}
	if _, taken := r.users[u.ID]; taken {
		return User{}, ErrConflict
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) SaveProfile(_ context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[p.UserID]; !ok {
		return ErrNotFound
	}
	r.profiles[p.UserID] = p
	return nil
}

func (r *MemoryRepository) GetProfile(_ context.Context, userID int64) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}
