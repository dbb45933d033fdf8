package memory

import (
	"context"
	"testing"
	"time"

	"github.com/astro-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code(id, email string, created time.Time) *domain.OTPCode {
	return &domain.OTPCode{OTPID: id, Email: email, Digest: "d", CreatedAt: created, ExpiresAt: created.Add(10 * time.Minute)}
}

func TestOTPRepo_CreateSupersedes(t *testing.T) {
	ctx := context.Background()
	r := NewOTPRepo()
	t0 := time.Now().UTC()

	n, err := r.Create(ctx, code("01A", "a@x.com", t0))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = r.Create(ctx, code("01B", "a@x.com", t0.Add(time.Second)))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	unused, err := r.ListUnused(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, unused, 1)
	assert.Equal(t, "01B", unused[0].OTPID)

	old, err := r.Get(ctx, "a@x.com", "01A")
	require.NoError(t, err)
	assert.True(t, old.Used)
}

func TestOTPRepo_LatestUnused_NotFound(t *testing.T) {
	_, err := NewOTPRepo().LatestUnused(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOTPRepo_LatestUnused_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := NewOTPRepo()
	_, err := r.Create(ctx, code("01A", "a@x.com", time.Now()))
	require.NoError(t, err)

	got, err := r.LatestUnused(ctx, "a@x.com")
	require.NoError(t, err)
	got.Attempts = 99

	again, err := r.LatestUnused(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Attempts)
}

func TestOTPRepo_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	r := NewOTPRepo()
	rec := code("01A", "a@x.com", time.Now())
	_, err := r.Create(ctx, rec)
	require.NoError(t, err)

	next := *rec
	next.Attempts = 1
	require.NoError(t, r.CompareAndSwap(ctx, rec, &next))

	// stale prev
	assert.ErrorIs(t, r.CompareAndSwap(ctx, rec, &next), domain.ErrConflict)

	used := next
	used.Attempts = 2
	used.Used = true
	require.NoError(t, r.CompareAndSwap(ctx, &next, &used))

	// used rows never change again
	assert.ErrorIs(t, r.CompareAndSwap(ctx, &used, &used), domain.ErrConflict)

	missing := code("01Z", "a@x.com", time.Now())
	assert.ErrorIs(t, r.CompareAndSwap(ctx, missing, missing), domain.ErrConflict)
}

func TestOTPRepo_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	r := NewOTPRepo()
	now := time.Now().UTC()

	_, _ = r.Create(ctx, code("01A", "a@x.com", now.Add(-time.Hour)))
	_, _ = r.Create(ctx, code("01B", "b@x.com", now.Add(-time.Hour)))
	_, _ = r.Create(ctx, code("01C", "b@x.com", now))

	n, err := r.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = r.Get(ctx, "a@x.com", "01A")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := r.LatestUnused(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "01C", got.OTPID)
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo()
	u := &domain.User{UserID: "u1", Email: "a@x.com"}

	require.NoError(t, r.Create(ctx, u))
	assert.ErrorIs(t, r.Create(ctx, &domain.User{UserID: "u2", Email: "a@x.com"}), domain.ErrConflict)

	got, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, r.MarkVerified(ctx, u))
	got, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	_, err = r.GetByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "emails are case-sensitive")
	assert.ErrorIs(t, r.MarkVerified(ctx, &domain.User{UserID: "nope"}), domain.ErrNotFound)
}

func TestDetailsRepo(t *testing.T) {
	ctx := context.Background()
	r := NewDetailsRepo()
	d := &domain.UserDetails{DetailsID: "d1", UserID: "u1", FullName: "A"}

	assert.ErrorIs(t, r.Update(ctx, d), domain.ErrNotFound)
	require.NoError(t, r.Create(ctx, d))
	assert.ErrorIs(t, r.Create(ctx, d), domain.ErrConflict)

	d.FullName = "B"
	got, err := r.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.FullName, "stored copy is isolated from caller")

	require.NoError(t, r.Update(ctx, d))
	got, err = r.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "B", got.FullName)
}
