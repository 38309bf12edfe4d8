package main

// Applies pending schema migrations and exits:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/honterplatform/icetex/internal/shared/config"
	"github.com/honterplatform/icetex/internal/shared/storage/db"
	"github.com/honterplatform/icetex/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
}
