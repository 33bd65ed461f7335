package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/arshad1/private-chat/internal/api"
	"github.com/arshad1/private-chat/internal/config"
	"github.com/arshad1/private-chat/internal/handlers"
	"github.com/arshad1/private-chat/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Build the configured backend pair
	var (
		messages store.MessageStore
		sessions store.SessionStore
		pingers  = make(map[string]handlers.Pinger)
	)

	switch cfg.StoreBackend {
	case "memory":
		messages = store.NewMemoryMessageStore()
		sessions = store.NewMemorySessionStore()
		logger.Warn().Msg("using in-memory stores; data is lost on restart")

	case "redis":
		client, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer client.Close()
		messages = store.NewRedisMessageStore(client)
		sessions = store.NewRedisSessionStore(client)
		pingers["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info().Msg("connected to Redis")

	case "postgres":
		pool, err := store.NewPostgresPool(ctx, cfg.DatabaseURL())
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pool.Close()
		if err := store.EnsurePostgresSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("postgres schema initialization failed")
		}
		messages = store.NewPostgresMessageStore(pool)
		sessions = store.NewPostgresSessionStore(pool)
		pingers["postgres"] = pool.Ping
		logger.Info().Msg("connected to PostgreSQL")

	case "sqlite":
		db, err := store.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		defer db.Close()
		messages = store.NewSQLiteMessageStore(db)
		sessions = store.NewSQLiteSessionStore(db)
		pingers["sqlite"] = db.PingContext
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite database")

	default:
		logger.Fatal().Str("backend", cfg.StoreBackend).Msg("unknown store backend")
	}

	// Create router
	h := handlers.NewHandler(messages, sessions, pingers)
	router := api.NewRouter(logger, h)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("backend", cfg.StoreBackend).
			Msg("starting chat persistence server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
