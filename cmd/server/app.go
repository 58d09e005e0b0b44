package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver

	"github.com/prepdeck/prepdeck-api/internal/config"
	"github.com/prepdeck/prepdeck-api/internal/domain/srs"
	"github.com/prepdeck/prepdeck-api/internal/platform/postgres"
	"github.com/prepdeck/prepdeck-api/internal/service/auth"
	"github.com/prepdeck/prepdeck-api/internal/service/progress"
	"github.com/prepdeck/prepdeck-api/internal/service/review"
)

// application holds the shared dependencies of the running server.
// Everything is wired once at boot; handlers receive services, services
// receive stores, and nothing reaches for globals.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService      auth.JWTService
	reviewService   review.Service
	progressService progress.Service
}

// newApplication connects to the database, runs migrations when
// configured to, and wires stores and services together.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(ctx, db, log); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	itemStore := postgres.NewPostgresItemStore(db, log)
	reviewStore := postgres.NewPostgresReviewStore(db, log)
	profileStore := postgres.NewPostgresProfileStore(db, log)
	activityStore := postgres.NewPostgresActivityStore(db, log)

	srsService := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		XPPerReview:    cfg.Study.XPPerReview,
		FirstInterval:  cfg.Study.FirstInterval,
		SecondInterval: cfg.Study.SecondInterval,
	}))

	reviewService := review.NewService(
		db,
		itemStore,
		reviewStore,
		profileStore,
		srsService,
		cfg.Study.DueListLimit,
		log,
	)

	progressService := progress.NewService(
		db,
		profileStore,
		activityStore,
		cfg.Study.ActivityListCap,
		log,
	)

	return &application{
		config:          cfg,
		logger:          log,
		db:              db,
		jwtService:      jwtService,
		reviewService:   reviewService,
		progressService: progressService,
	}, nil
}

// cleanup releases resources held by the application. Safe to call more
// than once.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
		app.db = nil
	}
}
