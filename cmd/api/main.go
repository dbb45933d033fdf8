package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/astro-auth-api/internal/application/auth"
	"github.com/astro-auth-api/internal/application/otp"
	"github.com/astro-auth-api/internal/application/profile"
	"github.com/astro-auth-api/internal/config"
	"github.com/astro-auth-api/internal/infrastructure/delivery"
	jwtinfra "github.com/astro-auth-api/internal/infrastructure/jwt"
	"github.com/astro-auth-api/internal/infrastructure/storage"
	"github.com/astro-auth-api/internal/pkg/otpcode"
	transporthttp "github.com/astro-auth-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("storage unavailable", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	sender, devCodes, err := delivery.New(cfg)
	if err != nil {
		slog.Error("code delivery unavailable", "err", err)
		os.Exit(1)
	}

	tokens, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		slog.Error("token provider unavailable", "err", err)
		os.Exit(1)
	}

	if cfg.OTPBypass {
		slog.Warn("OTP_BYPASS is enabled; any code is accepted")
	}
	codes := otp.NewService(otp.ServiceDeps{
		Repo:      repos.OTP,
		Generator: otpcode.NewGenerator(cfg.OTPLength),
		Config: otp.Config{
			TTL:         cfg.OTPExpiry,
			MaxAttempts: cfg.OTPMaxAttempts,
			Bypass:      cfg.OTPBypass,
		},
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		Codes:    codes,
		Users:    repos.Users,
		Profiles: repos.Details,
		Sender:   sender,
		Tokens:   tokens,
		CodeTTL:  cfg.OTPExpiry,
	})
	profileSvc := profile.NewService(profile.ServiceDeps{DetailsRepo: repos.Details})

	if cfg.OTPCleanupInterval > 0 {
		go runCleanup(ctx, authSvc, cfg.OTPCleanupInterval)
	}

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		Auth:     authSvc,
		Profile:  profileSvc,
		DevCodes: devCodes,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
	slog.Info("server stopped")
}

// runCleanup purges expired codes every interval until ctx is done.
func runCleanup(ctx context.Context, svc auth.Service, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := svc.CleanupExpiredOTPs(ctx); err != nil {
				slog.ErrorContext(ctx, "expired code cleanup failed", "err", err)
			}
		}
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
