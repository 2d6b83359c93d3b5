package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/adapters/database/pgsql"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/adapters/database/sqlite"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/handlers"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/jobs"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/platform/config"
	"github.com/icodeninjaX/coop-tracker-sub000/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Coop Tracker API
// @version 1.0
// @description Cooperative fund tracker: member contributions, loans, penalties, dividends and yearly archives.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Local sqlite cache keeps snapshots available when postgres is down.
	repos := pgsql.NewRepositoryProvider(dbPool)
	if cfg.SnapshotCachePath != "" {
		cache, err := sqlite.NewSnapshotCache(cfg.SnapshotCachePath)
		if err != nil {
			logger.Error("Failed to open snapshot cache", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cache.Close()
		repos.SnapshotCache = cache
	}

	serviceContainer := services.NewServiceContainer(&repos, logger)

	scheduler, err := jobs.NewScheduler(serviceContainer, cfg.PenaltySweepSchedule, logger)
	if err != nil {
		logger.Error("Failed to build scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a standalone
// database/sql connection, compatible with the main pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
