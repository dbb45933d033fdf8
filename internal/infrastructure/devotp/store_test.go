package devotp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SendThenGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.SendCode(ctx, "a@x.com", "123456", 10))
	code, ok := s.Get(ctx, "a@x.com")
	assert.True(t, ok)
	assert.Equal(t, "123456", code)

	_, ok = s.Get(ctx, "b@x.com")
	assert.False(t, ok)
}

func TestStore_LatestWins(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.SendCode(ctx, "a@x.com", "111111", 10))
	require.NoError(t, s.SendCode(ctx, "a@x.com", "222222", 10))
	code, _ := s.Get(ctx, "a@x.com")
	assert.Equal(t, "222222", code)
}

func TestStore_Expires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore()
	s.nowF = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.SendCode(ctx, "a@x.com", "123456", 1))
	now = now.Add(time.Minute)
	_, ok := s.Get(ctx, "a@x.com")
	assert.False(t, ok)
}
