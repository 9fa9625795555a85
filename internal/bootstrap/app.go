package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"wellness-backend/internal/checkins"
	"wellness-backend/internal/protocols"
	"wellness-backend/internal/protocols/consolidation"
	"wellness-backend/internal/services/health"
	"wellness-backend/internal/shared/auth"
	"wellness-backend/internal/shared/config"
	"wellness-backend/internal/shared/server"
	"wellness-backend/internal/shared/storage/db"
	"wellness-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Verifier         *auth.Verifier
	Policy           consolidation.TierPolicy
	ProtocolsRepo    protocols.Repo
	CheckinsRepo     checkins.Repo
	ProtocolsService *protocols.Service
	CheckinsService  *checkins.Service
	ProtocolsHandler *protocols.Handler
	CheckinsHandler  *checkins.Handler
	Health           *health.Service
}

// Build connects storage, wires services and handlers, and mounts the router.
// Dev-like environments fall back to in-memory repositories when the database is unavailable.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}

	policy := consolidation.DefaultPolicy()
	if path := strings.TrimSpace(cfg.ItemTypePolicyFile); path != "" {
		policy, err = consolidation.LoadPolicy(path)
		if err != nil {
			return nil, fmt.Errorf("load item type policy: %w", err)
		}
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Verifier: verifier,
		Policy:   policy,
		Health:   health.NewService(sqlDB),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Verifier:         app.Verifier,
		Health:           app.Health,
		ProtocolsHandler: app.ProtocolsHandler,
		CheckinsHandler:  app.CheckinsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ProtocolsRepo = &protocols.PGRepo{DB: app.DB}
		app.CheckinsRepo = &checkins.PGRepo{DB: app.DB}
	} else {
		app.ProtocolsRepo = protocols.NewMemoryRepo()
		app.CheckinsRepo = checkins.NewMemoryRepo()
	}

	consolidator := consolidation.Consolidator{Classifier: app.Policy}
	app.ProtocolsService = protocols.NewService(app.ProtocolsRepo, consolidator, app.Config.ProtocolCacheTTL)
	app.CheckinsService = checkins.NewService(app.CheckinsRepo)
	app.ProtocolsHandler = protocols.NewHandler(app.ProtocolsService)
	app.CheckinsHandler = checkins.NewHandler(app.CheckinsService)
}
