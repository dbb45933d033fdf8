package postgres

import (
	"context"
	"fmt"

	"github.com/astro-auth-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DetailsRepo struct {
	db *pgxpool.Pool
}

func NewDetailsRepo(db *pgxpool.Pool) *DetailsRepo {
	return &DetailsRepo{db: db}
}

// Date and time columns travel as text so the domain keeps its string form.
func (r *DetailsRepo) Create(ctx context.Context, d *domain.UserDetails) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_details (id, user_id, full_name, gender, marital_status,
		   date_of_birth, time_of_birth, place_of_birth, timezone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6::text::date, $7::text::time, $8, $9, $10, $11)`,
		d.DetailsID, d.UserID, d.FullName, d.Gender, d.MaritalStatus,
		d.DateOfBirth, d.TimeOfBirth, d.PlaceOfBirth, d.Timezone, d.CreatedAt, d.UpdatedAt)
	return mapErr(err, "user details")
}

func (r *DetailsRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserDetails, error) {
	var d domain.UserDetails
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, full_name, gender, marital_status,
		   to_char(date_of_birth, 'YYYY-MM-DD'), time_of_birth::text,
		   place_of_birth, timezone, created_at, updated_at
		 FROM user_details WHERE user_id = $1`, userID).
		Scan(&d.DetailsID, &d.UserID, &d.FullName, &d.Gender, &d.MaritalStatus,
			&d.DateOfBirth, &d.TimeOfBirth, &d.PlaceOfBirth, &d.Timezone, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, "user details")
	}
	return &d, nil
}

func (r *DetailsRepo) Update(ctx context.Context, d *domain.UserDetails) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_details SET full_name = $2, gender = $3, marital_status = $4,
		   date_of_birth = $5::text::date, time_of_birth = $6::text::time,
		   place_of_birth = $7, timezone = $8, updated_at = $9
		 WHERE user_id = $1`,
		d.UserID, d.FullName, d.Gender, d.MaritalStatus,
		d.DateOfBirth, d.TimeOfBirth, d.PlaceOfBirth, d.Timezone, d.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user details not found: %w", domain.ErrNotFound)
	}
	return nil
}
