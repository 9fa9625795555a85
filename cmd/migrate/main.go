package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"wellness-backend/internal/shared/config"
	"wellness-backend/internal/shared/storage/db"
	"wellness-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		_ = telemetry.Sync()
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		_ = telemetry.Sync()
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", nil)
	_ = telemetry.Sync()
}
