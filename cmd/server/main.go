package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/LacErnest/dj-assesment-api/internal/config"
	"github.com/LacErnest/dj-assesment-api/internal/domain/repositories"
	"github.com/LacErnest/dj-assesment-api/internal/handler"
	"github.com/LacErnest/dj-assesment-api/internal/middleware"
	"github.com/LacErnest/dj-assesment-api/internal/repository/memory"
	"github.com/LacErnest/dj-assesment-api/internal/repository/postgres"
	"github.com/LacErnest/dj-assesment-api/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Storage backend: PostgreSQL when DATABASE_URL is set, otherwise the
	// in-memory store (useful for local development and demos).
	var (
		menuRepo  repositories.MenuItemRepository
		txManager repositories.TransactionManager
	)

	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.RunSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to run schema: %v", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		menuRepo = postgres.NewMenuItemRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)

		logger.Info("database connected", "table", tables.MenuItems)
	} else {
		store := memory.NewStore()
		menuRepo = memory.NewMenuItemRepository(store)
		txManager = memory.NewTransactionManager(store)

		logger.Warn("DATABASE_URL not set, using in-memory store (data is not persisted)")
	}

	menuService := service.NewMenuService(menuRepo, txManager, logger)

	mux := handler.NewRouter(menuService, logger)

	// Build middleware chain (applied in reverse order, they wrap each other)
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
