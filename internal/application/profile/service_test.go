package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/astro-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDetailsStore struct{ mock.Mock }

func (m *mockDetailsStore) Create(ctx context.Context, d *domain.UserDetails) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDetailsStore) GetByUserID(ctx context.Context, userID string) (*domain.UserDetails, error) {
	args := m.Called(ctx, userID)
	if d, _ := args.Get(0).(*domain.UserDetails); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDetailsStore) Update(ctx context.Context, d *domain.UserDetails) error {
	return m.Called(ctx, d).Error(0)
}

func newService(ds *mockDetailsStore) Service {
	return NewService(ServiceDeps{DetailsRepo: ds})
}

func baseReq() domain.RegisterDetailsRequest {
	return domain.RegisterDetailsRequest{
		FullName:      "Asha Rao",
		Gender:        "female",
		MaritalStatus: "single",
		DateOfBirth:   "1994-08-17",
		TimeOfBirth:   "06:45",
		PlaceOfBirth:  "Pune",
		Timezone:      "Asia/Kolkata",
	}
}

func strPtr(s string) *string { return &s }

func TestRegister_Success(t *testing.T) {
	ds := &mockDetailsStore{}
	ds.On("GetByUserID", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	ds.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.UserDetails) bool {
		return d.UserID == "u1" && d.FullName == "Asha Rao" && d.DetailsID != ""
	})).Return(nil)

	d, err := newService(ds).Register(context.Background(), "u1", baseReq())
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", d.Timezone)
	assert.False(t, d.CreatedAt.IsZero())
	ds.AssertExpectations(t)
}

func TestRegister_AlreadyExists(t *testing.T) {
	ds := &mockDetailsStore{}
	ds.On("GetByUserID", mock.Anything, "u1").Return(&domain.UserDetails{UserID: "u1"}, nil)

	_, err := newService(ds).Register(context.Background(), "u1", baseReq())
	assert.True(t, errors.Is(err, domain.ErrConflict))
	ds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_CreateRace(t *testing.T) {
	ds := &mockDetailsStore{}
	ds.On("GetByUserID", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	ds.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	_, err := newService(ds).Register(context.Background(), "u1", baseReq())
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestGet_NotFound(t *testing.T) {
	ds := &mockDetailsStore{}
	ds.On("GetByUserID", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	_, err := newService(ds).Get(context.Background(), "u1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate_Partial(t *testing.T) {
	existing := &domain.UserDetails{UserID: "u1", FullName: "Asha Rao", Gender: "female", PlaceOfBirth: "Pune"}
	ds := &mockDetailsStore{}
	ds.On("GetByUserID", mock.Anything, "u1").Return(existing, nil)
	ds.On("Update", mock.Anything, mock.Anything).Return(nil)

	d, err := newService(ds).Update(context.Background(), "u1", domain.UpdateDetailsRequest{
		PlaceOfBirth: strPtr("Mumbai"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", d.PlaceOfBirth)
	assert.Equal(t, "Asha Rao", d.FullName)
	assert.Equal(t, "female", d.Gender)
	assert.False(t, d.UpdatedAt.IsZero())
}

func TestUpdate_NotFound(t *testing.T) {
	ds := &mockDetailsStore{}
	ds.On("GetByUserID", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	_, err := newService(ds).Update(context.Background(), "u1", domain.UpdateDetailsRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	ds.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
