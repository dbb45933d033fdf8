// Command migrate applies the embedded Postgres schema migrations.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/astro-auth-api/internal/config"
	"github.com/astro-auth-api/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := postgres.Migrate(cfg.DatabaseURL, *direction); err != nil {
		slog.Error("migrate failed", "direction", *direction, "err", err)
		os.Exit(1)
	}
	slog.Info("migrate complete", "direction", *direction)
}
