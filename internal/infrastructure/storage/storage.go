// Package storage opens the repositories selected by STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/astro-auth-api/internal/application/auth"
	"github.com/astro-auth-api/internal/application/otp"
	"github.com/astro-auth-api/internal/config"
	"github.com/astro-auth-api/internal/domain"
	"github.com/astro-auth-api/internal/infrastructure/dynamo"
	"github.com/astro-auth-api/internal/infrastructure/memory"
	"github.com/astro-auth-api/internal/infrastructure/postgres"
)

// DetailsRepository is satisfied by every driver's user-details store.
type DetailsRepository interface {
	Create(ctx context.Context, d *domain.UserDetails) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserDetails, error)
	Update(ctx context.Context, d *domain.UserDetails) error
}

// Repos groups one driver's repositories.
type Repos struct {
	OTP     otp.Repository
	Users   auth.UserRepository
	Details DetailsRepository
}

// Open connects to the configured backend. The returned close func releases
// driver resources and is never nil.
func Open(ctx context.Context, cfg *config.Config) (*Repos, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("dynamo client: %w", err)
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		slog.Info("storage ready", "driver", cfg.StorageDriver)
		return &Repos{
			OTP:     dynamo.NewOTPRepo(client, cfg.DynamoTables.OTPCodes),
			Users:   dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
			Details: dynamo.NewDetailsRepo(client, cfg.DynamoTables.UserDetails),
		}, func() {}, nil

	case config.StoragePostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		slog.Info("storage ready", "driver", cfg.StorageDriver)
		return &Repos{
			OTP:     postgres.NewOTPRepo(pool),
			Users:   postgres.NewUserRepo(pool),
			Details: postgres.NewDetailsRepo(pool),
		}, pool.Close, nil

	case config.StorageMemory:
		slog.Warn("storage is in-process memory; data is lost on restart")
		return &Repos{
			OTP:     memory.NewOTPRepo(),
			Users:   memory.NewUserRepo(),
			Details: memory.NewDetailsRepo(),
		}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
