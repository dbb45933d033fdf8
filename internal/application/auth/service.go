package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/astro-auth-api/internal/domain"
	jwtinfra "github.com/astro-auth-api/internal/infrastructure/jwt"
	"github.com/astro-auth-api/internal/pkg/id"
)

const tokenTypeBearer = "bearer"

type RequestCodeResult struct {
	Email      string
	TTLMinutes int
}

type RedeemResult struct {
	Token      string
	TokenType  string
	ExpiresIn  int // seconds
	User       *domain.User
	HasProfile bool
}

type Service interface {
	RequestCode(ctx context.Context, email string) (*RequestCodeResult, error)
	RedeemCode(ctx context.Context, email, code string) (*RedeemResult, error)
	ValidateToken(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	CleanupExpiredOTPs(ctx context.Context) (int, error)
}

type codeLifecycle interface {
	Create(ctx context.Context, email string) (*domain.OTPCode, string, error)
	Verify(ctx context.Context, email, candidate string) error
	CleanupExpired(ctx context.Context) (int, error)
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	MarkVerified(ctx context.Context, u *domain.User) error
}

type ProfileLookup interface {
	GetByUserID(ctx context.Context, userID string) (*domain.UserDetails, error)
}

type CodeSender interface {
	SendCode(ctx context.Context, to, code string, ttlMinutes int) error
}

type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
	Verify(token string) (*jwtinfra.Claims, error)
	TTL() time.Duration
}

type service struct {
	codes    codeLifecycle
	users    UserRepository
	profiles ProfileLookup
	sender   CodeSender
	tokens   TokenIssuer
	codeTTL  time.Duration
	now      func() time.Time
}

type ServiceDeps struct {
	Codes    codeLifecycle
	Users    UserRepository
	Profiles ProfileLookup
	Sender   CodeSender
	Tokens   TokenIssuer
	CodeTTL  time.Duration
}

func NewService(deps ServiceDeps) Service {
	ttl := deps.CodeTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &service{
		codes:    deps.Codes,
		users:    deps.Users,
		profiles: deps.Profiles,
		sender:   deps.Sender,
		tokens:   deps.Tokens,
		codeTTL:  ttl,
		now:      time.Now,
	}
}

// RequestCode issues a code for email and hands it to the delivery channel.
// On delivery failure the record stays and is superseded by the next request.
func (s *service) RequestCode(ctx context.Context, email string) (*RequestCodeResult, error) {
	rec, plain, err := s.codes.Create(ctx, email)
	if err != nil {
		return nil, err
	}
	ttlMinutes := int(s.codeTTL / time.Minute)
	if err := s.sender.SendCode(ctx, email, plain, ttlMinutes); err != nil {
		slog.ErrorContext(ctx, "code delivery failed", "email", email, "otp_id", rec.OTPID, "err", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	slog.InfoContext(ctx, "login code sent", "email", email, "otp_id", rec.OTPID)
	return &RequestCodeResult{Email: email, TTLMinutes: ttlMinutes}, nil
}

// RedeemCode verifies the code, materializes the user and mints a session token.
// Code failures are returned unchanged so callers can show their message.
func (s *service) RedeemCode(ctx context.Context, email, code string) (*RedeemResult, error) {
	if err := s.codes.Verify(ctx, email, code); err != nil {
		return nil, err
	}

	u, err := s.getOrCreateUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if !u.EmailVerified {
		if err := s.users.MarkVerified(ctx, u); err != nil {
			return nil, fmt.Errorf("%w: mark verified: %w", domain.ErrStorage, err)
		}
		u.EmailVerified = true
		u.UpdatedAt = s.now().UTC()
	}

	hasProfile, err := s.hasProfile(ctx, u.UserID)
	if err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Issue(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user authenticated", "user_id", u.UserID, "has_profile", hasProfile)
	return &RedeemResult{
		Token:      token,
		TokenType:  tokenTypeBearer,
		ExpiresIn:  int(s.tokens.TTL() / time.Second),
		User:       u,
		HasProfile: hasProfile,
	}, nil
}

func (s *service) getOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: get user: %w", domain.ErrStorage, err)
	}

	now := s.now().UTC()
	u = &domain.User{
		UserID:    id.New(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.users.Create(ctx, u)
	if errors.Is(err, domain.ErrConflict) {
		// lost a concurrent first login; the winner's row is authoritative
		u, err = s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("%w: get user: %w", domain.ErrStorage, err)
		}
		return u, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %w", domain.ErrStorage, err)
	}
	slog.InfoContext(ctx, "user created", "user_id", u.UserID)
	return u, nil
}

func (s *service) hasProfile(ctx context.Context, userID string) (bool, error) {
	if s.profiles == nil {
		return false, nil
	}
	_, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("%w: get user details: %w", domain.ErrStorage, err)
	}
}

// ValidateToken returns the email a session token was issued for.
func (s *service) ValidateToken(_ context.Context, token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	email, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %w", domain.ErrStorage, err)
	}
	return u, nil
}

func (s *service) CleanupExpiredOTPs(ctx context.Context) (int, error) {
	n, err := s.codes.CleanupExpired(ctx)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "expired codes removed", "count", n)
	return n, nil
}
