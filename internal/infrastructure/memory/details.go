package memory

import (
	"context"
	"sync"

	"github.com/astro-auth-api/internal/domain"
)

type DetailsRepo struct {
	mu       sync.RWMutex
	byUserID map[string]*domain.UserDetails
}

func NewDetailsRepo() *DetailsRepo {
	return &DetailsRepo{byUserID: make(map[string]*domain.UserDetails)}
}

func (r *DetailsRepo) Create(_ context.Context, d *domain.UserDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUserID[d.UserID]; ok {
		return domain.ErrConflict
	}
	cp := *d
	r.byUserID[d.UserID] = &cp
	return nil
}

func (r *DetailsRepo) GetByUserID(_ context.Context, userID string) (*domain.UserDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byUserID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *DetailsRepo) Update(_ context.Context, d *domain.UserDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUserID[d.UserID]; !ok {
		return domain.ErrNotFound
	}
	cp := *d
	r.byUserID[d.UserID] = &cp
	return nil
}
