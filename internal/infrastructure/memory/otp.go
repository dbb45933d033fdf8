// Package memory holds mutex-guarded in-process repositories used by
// STORAGE_DRIVER=memory and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/astro-auth-api/internal/domain"
)

type OTPRepo struct {
	mu      sync.Mutex
	byEmail map[string][]*domain.OTPCode // oldest first
}

func NewOTPRepo() *OTPRepo {
	return &OTPRepo{byEmail: make(map[string][]*domain.OTPCode)}
}

func (r *OTPRepo) Create(_ context.Context, rec *domain.OTPCode) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	superseded := 0
	for _, c := range r.byEmail[rec.Email] {
		if !c.Used {
			c.Used = true
			superseded++
		}
	}
	cp := *rec
	r.byEmail[rec.Email] = append(r.byEmail[rec.Email], &cp)
	return superseded, nil
}

func (r *OTPRepo) LatestUnused(_ context.Context, email string) (*domain.OTPCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	unused := r.unused(email)
	if len(unused) == 0 {
		return nil, domain.ErrNotFound
	}
	cp := unused[0]
	return &cp, nil
}

// ListUnused returns every unused record for email, newest first.
func (r *OTPRepo) ListUnused(_ context.Context, email string) ([]domain.OTPCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unused(email), nil
}

// Get returns a copy of the record with the given id, used or not.
func (r *OTPRepo) Get(_ context.Context, email, otpID string) (*domain.OTPCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byEmail[email] {
		if c.OTPID == otpID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OTPRepo) CompareAndSwap(_ context.Context, prev, next *domain.OTPCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byEmail[prev.Email] {
		if c.OTPID != prev.OTPID {
			continue
		}
		if c.Used || c.Attempts != prev.Attempts {
			return domain.ErrConflict
		}
		c.Attempts = next.Attempts
		c.Used = next.Used
		return nil
	}
	return domain.ErrConflict
}

func (r *OTPRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for email, codes := range r.byEmail {
		kept := codes[:0]
		for _, c := range codes {
			if c.ExpiresAt.Before(now) {
				deleted++
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			delete(r.byEmail, email)
			continue
		}
		r.byEmail[email] = kept
	}
	return deleted, nil
}

// unused must be called with r.mu held.
func (r *OTPRepo) unused(email string) []domain.OTPCode {
	var out []domain.OTPCode
	for _, c := range r.byEmail[email] {
		if !c.Used {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].OTPID > out[j].OTPID
	})
	return out
}
