package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/astro-auth-api/internal/domain"
	"github.com/astro-auth-api/internal/pkg/id"
)

type Service interface {
	Register(ctx context.Context, userID string, req domain.RegisterDetailsRequest) (*domain.UserDetails, error)
	Get(ctx context.Context, userID string) (*domain.UserDetails, error)
	Update(ctx context.Context, userID string, req domain.UpdateDetailsRequest) (*domain.UserDetails, error)
}

type detailsStore interface {
	Create(ctx context.Context, d *domain.UserDetails) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserDetails, error)
	Update(ctx context.Context, d *domain.UserDetails) error
}

type service struct {
	repo detailsStore
	now  func() time.Time
}

type ServiceDeps struct {
	DetailsRepo detailsStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.DetailsRepo, now: time.Now}
}

func (s *service) Register(ctx context.Context, userID string, req domain.RegisterDetailsRequest) (*domain.UserDetails, error) {
	_, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, fmt.Errorf("user details already exist: %w", domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	d := &domain.UserDetails{
		DetailsID:     id.New(),
		UserID:        userID,
		FullName:      req.FullName,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
		DateOfBirth:   req.DateOfBirth,
		TimeOfBirth:   req.TimeOfBirth,
		PlaceOfBirth:  req.PlaceOfBirth,
		Timezone:      req.Timezone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("user details already exist: %w", domain.ErrConflict)
		}
		return nil, err
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.UserDetails, error) {
	d, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user details not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

// Update applies only the fields present in req.
func (s *service) Update(ctx context.Context, userID string, req domain.UpdateDetailsRequest) (*domain.UserDetails, error) {
	d, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply(&d.FullName, req.FullName)
	apply(&d.Gender, req.Gender)
	apply(&d.MaritalStatus, req.MaritalStatus)
	apply(&d.DateOfBirth, req.DateOfBirth)
	apply(&d.TimeOfBirth, req.TimeOfBirth)
	apply(&d.PlaceOfBirth, req.PlaceOfBirth)
	apply(&d.Timezone, req.Timezone)
	d.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
