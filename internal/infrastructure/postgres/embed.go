package postgres

import "embed"

// MigrationFS embeds the schema migrations applied by cmd/migrate.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
