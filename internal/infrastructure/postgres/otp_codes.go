package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/astro-auth-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const otpColumns = `id, email, otp_digest, expires_at, attempts, is_used, created_at`

type OTPRepo struct {
	db *pgxpool.Pool
}

func NewOTPRepo(db *pgxpool.Pool) *OTPRepo {
	return &OTPRepo{db: db}
}

// Create supersedes every unused code for rec.Email and inserts rec in one
// transaction. Concurrent creates for the same email serialize on an
// advisory lock; the partial unique index backs the one-unused invariant.
func (r *OTPRepo) Create(ctx context.Context, rec *domain.OTPCode) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, rec.Email); err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE otp_codes SET is_used = TRUE WHERE email = $1 AND NOT is_used`, rec.Email)
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO otp_codes (`+otpColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.OTPID, rec.Email, rec.Digest, rec.ExpiresAt, rec.Attempts, rec.Used, rec.CreatedAt)
	if err != nil {
		return 0, mapErr(err, "otp code")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *OTPRepo) LatestUnused(ctx context.Context, email string) (*domain.OTPCode, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+otpColumns+` FROM otp_codes
		 WHERE email = $1 AND NOT is_used
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, email)
	c, err := scanOTP(row)
	if err != nil {
		return nil, mapErr(err, "otp code")
	}
	return c, nil
}

// CompareAndSwap writes next's attempts and used flag only while the stored
// row is still unused with prev's attempt count.
func (r *OTPRepo) CompareAndSwap(ctx context.Context, prev, next *domain.OTPCode) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE otp_codes SET attempts = $3, is_used = $4
		 WHERE id = $1 AND attempts = $2 AND NOT is_used`,
		prev.OTPID, prev.Attempts, next.Attempts, next.Used)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("otp code changed: %w", domain.ErrConflict)
	}
	return nil
}

func (r *OTPRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanOTP(row pgx.Row) (*domain.OTPCode, error) {
	var c domain.OTPCode
	if err := row.Scan(&c.OTPID, &c.Email, &c.Digest, &c.ExpiresAt, &c.Attempts, &c.Used, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
