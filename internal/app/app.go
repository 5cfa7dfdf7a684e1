// Package app wires configuration, storage, the stats client and services together.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/boxscore/backend/internal/config"
	"github.com/boxscore/backend/internal/delivery/http"
	"github.com/boxscore/backend/internal/repository/postgres"
	"github.com/boxscore/backend/internal/service"
	"github.com/boxscore/backend/internal/statsapi"
)

// App holds the wired dependencies shared by the server and the CLI
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Repo        service.DataRepository
	Metrics     *service.Metrics
	Players     *service.PlayerDataService
	Predictions *service.PredictionService

	closers []func()
}

// New connects to PostgreSQL when DATABASE_URL is set and falls back to in-memory storage otherwise
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) *App {
	a := &App{Config: cfg, Logger: log, Metrics: service.NewMetrics()}

	a.Repo = a.openRepository(ctx)

	stats := statsapi.NewClient(statsapi.Options{
		BaseURL:         cfg.StatsBaseURL,
		Timeout:         cfg.StatsTimeout,
		MaxRetries:      cfg.StatsMaxRetries,
		RetryDelay:      cfg.StatsRetryDelay,
		RequestInterval: cfg.StatsRequestInterval,
		Logger:          log.With("component", "statsapi"),
		Observer:        a.Metrics,
	})

	a.Players = service.NewPlayerDataService(stats, a.Repo, service.PlayerDataOptions{
		CurrentSeason:  cfg.CurrentSeason,
		PreviousSeason: cfg.PreviousSeason,
		MinGames:       cfg.MinGames,
		FuzzyThreshold: cfg.FuzzyThreshold,
		CacheSize:      cfg.CacheSize,
		CacheTTL:       cfg.CacheTTL,
	}, log.With("component", "player_data"), a.Metrics)

	a.Predictions = service.NewPredictionService(a.Players, a.Repo, service.PredictionOptions{
		Workers:       cfg.PredictWorkers,
		SimIterations: cfg.SimIterations,
	}, log.With("component", "prediction"), a.Metrics)

	return a
}

func (a *App) openRepository(ctx context.Context) service.DataRepository {
	if a.Config.DatabaseURL == "" {
		a.Logger.Info("DATABASE_URL not set, using in-memory storage")
		return postgres.NewMemoryRepository()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, a.Config.DatabaseURL)
	if err == nil {
		err = pool.Ping(ctx)
		if err != nil {
			pool.Close()
		}
	}
	if err != nil {
		a.Logger.Warn("could not connect to database, using in-memory storage", "error", err)
		return postgres.NewMemoryRepository()
	}

	db := stdlib.OpenDBFromPool(pool)
	a.closers = append(a.closers, func() {
		_ = db.Close()
		pool.Close()
	})

	repo := postgres.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		a.Logger.Error("database migration failed, using in-memory storage", "error", err)
		return postgres.NewMemoryRepository()
	}
	a.Logger.Info("connected to PostgreSQL")
	return repo
}

// Close waits for background writes, then releases the database
func (a *App) Close() {
	a.Predictions.WaitBackground()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// HTTPServer builds the Fiber app with middleware and routes
func (a *App) HTTPServer() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Boxscore API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // a full matchup trains dozens of models
		ErrorHandler: http.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	handler := http.NewHandler(a.Players, a.Predictions, a.Repo, a.Logger.With("component", "http"))
	http.SetupRoutes(app, handler, a.Metrics)
	return app
}

// Serve listens on the configured port until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context) error {
	app := a.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		port := a.Config.Port
		if port == "" {
			port = "8080"
		}
		a.Logger.Info("server starting", "port", port, "env", a.Config.Env)
		errCh <- app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		a.Logger.Error("server forced to shutdown", "error", err)
	}
	a.Logger.Info("server exited gracefully")
	return nil
}
