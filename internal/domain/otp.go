package domain

import "time"

// OTPState is the lifecycle position of a code record, derived from its fields.
type OTPState string

const (
	OTPActive    OTPState = "active"
	OTPConsumed  OTPState = "consumed" // used, or superseded by a newer code
	OTPExpired   OTPState = "expired"
	OTPExhausted OTPState = "exhausted"
)

// OTPCode is one issued one-time code. Only the SHA-256 digest is stored.
// At most one record per email has Used=false.
type OTPCode struct {
	OTPID     string    `json:"id" dynamodbav:"otp_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Digest    string    `json:"-" dynamodbav:"digest"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at,unixtime"`
	Attempts  int       `json:"attempts" dynamodbav:"attempts"`
	Used      bool      `json:"used" dynamodbav:"used"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// State classifies the record at instant now for a limit of maxAttempts.
// Expiry is checked before exhaustion.
func (c *OTPCode) State(now time.Time, maxAttempts int) OTPState {
	switch {
	case c.Used:
		return OTPConsumed
	case now.After(c.ExpiresAt):
		return OTPExpired
	case c.Attempts >= maxAttempts:
		return OTPExhausted
	default:
		return OTPActive
	}
}
