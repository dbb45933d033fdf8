package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/astro-auth-api/internal/domain"
	"github.com/astro-auth-api/internal/pkg/id"
	"github.com/astro-auth-api/internal/pkg/otpcode"
)

const (
	defaultTTL         = 10 * time.Minute
	defaultMaxAttempts = 5

	// Upper bound on re-read/re-decide rounds after a lost conditional write.
	maxConflictRetries = 8
)

// Repository persists code records. Implementations must make Create and
// CompareAndSwap atomic with respect to each other for the same email.
type Repository interface {
	// Create marks every unused record of rec.Email used and inserts rec, in one
	// atomic write. It returns how many records were superseded.
	Create(ctx context.Context, rec *domain.OTPCode) (int, error)
	// LatestUnused returns the newest record with Used=false, or domain.ErrNotFound.
	LatestUnused(ctx context.Context, email string) (*domain.OTPCode, error)
	// CompareAndSwap stores next if the stored record still has prev's
	// attempts and used values; otherwise it returns domain.ErrConflict.
	CompareAndSwap(ctx context.Context, prev, next *domain.OTPCode) error
	// DeleteExpired removes records whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type Config struct {
	TTL         time.Duration
	MaxAttempts int
	Bypass      bool // accept any candidate; never enabled in production
}

type Service interface {
	Create(ctx context.Context, email string) (*domain.OTPCode, string, error)
	Verify(ctx context.Context, email, candidate string) error
	CleanupExpired(ctx context.Context) (int, error)
}

type service struct {
	cfg  Config
	repo Repository
	gen  *otpcode.Generator
	now  func() time.Time
}

type ServiceDeps struct {
	Repo      Repository
	Generator *otpcode.Generator
	Config    Config
	Clock     func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	cfg := deps.Config
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	gen := deps.Generator
	if gen == nil {
		gen = otpcode.NewGenerator(0)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{cfg: cfg, repo: deps.Repo, gen: gen, now: clock}
}

// Create issues a new code for email, superseding any outstanding one.
// The plaintext is returned for delivery only.
func (s *service) Create(ctx context.Context, email string) (*domain.OTPCode, string, error) {
	plain, digest, err := s.gen.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate code: %w", err)
	}
	now := s.now().UTC()
	rec := &domain.OTPCode{
		OTPID:     id.New(),
		Email:     email,
		Digest:    digest,
		ExpiresAt: now.Add(s.cfg.TTL),
		CreatedAt: now,
	}

	for round := 0; round < maxConflictRetries; round++ {
		superseded, err := s.repo.Create(ctx, rec)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: create code: %w", domain.ErrStorage, err)
		}
		if superseded > 0 {
			slog.InfoContext(ctx, "superseded outstanding codes", "email", email, "count", superseded)
		}
		return rec, plain, nil
	}
	return nil, "", fmt.Errorf("%w: create code: too many concurrent writers", domain.ErrStorage)
}

// Verify checks candidate against the newest unused record for email.
// Every call that finds a record commits exactly one conditional write.
func (s *service) Verify(ctx context.Context, email, candidate string) error {
	for round := 0; round < maxConflictRetries; round++ {
		cur, err := s.repo.LatestUnused(ctx, email)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: load code: %w", domain.ErrStorage, err)
		}
		if cur.Used {
			return domain.ErrCodeNotFound
		}

		next, verdict := s.decide(cur, candidate, s.now())
		err = s.repo.CompareAndSwap(ctx, cur, &next)
		if errors.Is(err, domain.ErrConflict) {
			slog.DebugContext(ctx, "code record changed during verify, retrying", "otp_id", cur.OTPID)
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: update code: %w", domain.ErrStorage, err)
		}
		return verdict
	}
	return fmt.Errorf("%w: verify code: too many concurrent writers", domain.ErrStorage)
}

// decide applies the verification table to cur and returns the record to
// write back with the outcome for the caller.
func (s *service) decide(cur *domain.OTPCode, candidate string, now time.Time) (domain.OTPCode, error) {
	next := *cur
	switch cur.State(now, s.cfg.MaxAttempts) {
	case domain.OTPExpired:
		next.Used = true
		return next, domain.ErrCodeExpired
	case domain.OTPExhausted:
		next.Used = true
		return next, domain.ErrAttemptsExceeded
	}

	next.Attempts++
	if s.cfg.Bypass || otpcode.Equal(candidate, cur.Digest) {
		next.Used = true
		return next, nil
	}
	remaining := s.cfg.MaxAttempts - next.Attempts
	if remaining <= 0 {
		remaining = 0
		next.Used = true
	}
	return next, &domain.MismatchError{Remaining: remaining}
}

func (s *service) CleanupExpired(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return n, fmt.Errorf("%w: delete expired codes: %w", domain.ErrStorage, err)
	}
	return n, nil
}
