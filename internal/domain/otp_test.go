package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPCode_State(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	active := OTPCode{ExpiresAt: now.Add(time.Minute)}

	assert.Equal(t, OTPActive, active.State(now, 5))

	used := active
	used.Used = true
	assert.Equal(t, OTPConsumed, used.State(now, 5))

	expired := active
	expired.ExpiresAt = now.Add(-time.Second)
	expired.Attempts = 5
	assert.Equal(t, OTPExpired, expired.State(now, 5), "expiry wins over exhaustion")

	exhausted := active
	exhausted.Attempts = 5
	assert.Equal(t, OTPExhausted, exhausted.State(now, 5))

	atExpiry := active
	atExpiry.ExpiresAt = now
	assert.Equal(t, OTPActive, atExpiry.State(now, 5), "expiry is strict")
}

func TestMismatchError(t *testing.T) {
	var err error = &MismatchError{Remaining: 2}
	assert.EqualError(t, err, "invalid code: 2 attempts remaining")
	assert.True(t, errors.Is(err, ErrCodeMismatch))
	assert.False(t, errors.Is(err, ErrAttemptsExceeded))

	err = &MismatchError{Remaining: 0}
	assert.EqualError(t, err, "invalid code: maximum attempts exceeded")
	assert.True(t, errors.Is(err, ErrCodeMismatch))
	assert.True(t, errors.Is(err, ErrAttemptsExceeded))

	var me *MismatchError
	assert.True(t, errors.As(err, &me))
	assert.Equal(t, 0, me.Remaining)
}
