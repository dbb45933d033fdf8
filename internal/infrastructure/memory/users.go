package memory

import (
	"context"
	"sync"
	"time"

	"github.com/astro-auth-api/internal/domain"
)

type UserRepo struct {
	mu      sync.RWMutex
	users   map[string]*domain.User // user_id -> user
	byEmail map[string]string       // email -> user_id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrConflict
	}
	cp := *u
	r.users[u.UserID] = &cp
	r.byEmail[u.Email] = u.UserID
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

func (r *UserRepo) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) MarkVerified(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.EmailVerified = true
	stored.UpdatedAt = time.Now().UTC()
	return nil
}
