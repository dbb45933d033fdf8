// Command cleanup deletes expired login codes once and exits. Intended for cron.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/astro-auth-api/internal/application/otp"
	"github.com/astro-auth-api/internal/config"
	"github.com/astro-auth-api/internal/infrastructure/storage"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repos, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("storage unavailable", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	codes := otp.NewService(otp.ServiceDeps{
		Repo:   repos.OTP,
		Config: otp.Config{TTL: cfg.OTPExpiry, MaxAttempts: cfg.OTPMaxAttempts},
	})
	n, err := codes.CleanupExpired(ctx)
	if err != nil {
		slog.Error("cleanup failed", "err", err)
		closeStore()
		os.Exit(1)
	}
	slog.Info("expired codes removed", "count", n, "driver", cfg.StorageDriver)
}
