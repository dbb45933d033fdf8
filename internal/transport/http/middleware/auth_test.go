package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/astro-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct{ mock.Mock }

func (m *mockResolver) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuth_MissingHeader(t *testing.T) {
	res := &mockResolver{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(res)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	res.AssertNotCalled(t, "CurrentUser", mock.Anything, mock.Anything)
}

func TestAuth_BadToken(t *testing.T) {
	res := &mockResolver{}
	res.On("CurrentUser", mock.Anything, "not-a-real-token").Return(nil, domain.ErrTokenInvalid)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(res)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "could not validate credentials")
}

func TestAuth_UnknownUser(t *testing.T) {
	res := &mockResolver{}
	res.On("CurrentUser", mock.Anything, "tok").Return(nil, fmt.Errorf("user not found: %w", domain.ErrUnauthorized))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	Auth(res)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_StorageFailure(t *testing.T) {
	res := &mockResolver{}
	res.On("CurrentUser", mock.Anything, "tok").Return(nil, fmt.Errorf("%w: timeout", domain.ErrStorage))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	Auth(res)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "timeout")
}

func TestAuth_ValidToken_InjectsUser(t *testing.T) {
	res := &mockResolver{}
	want := &domain.User{UserID: "u1", Email: "a@example.com"}
	res.On("CurrentUser", mock.Anything, "good").Return(want, nil)

	var got *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		got = u
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	Auth(res)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, want, got)
	res.AssertExpectations(t)
}

func TestUserFromContext_Missing(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
