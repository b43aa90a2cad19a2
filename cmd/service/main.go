// cmd/service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"archgen/internal/api"
	"archgen/internal/auth"
	"archgen/internal/config"
	"archgen/internal/database"
	"archgen/internal/generation"
	"archgen/internal/github"
	"archgen/internal/limiter"
	"archgen/internal/llm"
	"archgen/internal/syncer"
	"archgen/internal/webhook"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully",
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.LLMModel,
		"github_app_configured", cfg.GithubAppConfigured(),
	)

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize database connection and run migrations
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()
	if err := dbpool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	logger.Info("Database connection established")

	if err := runMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	// 5. Initialize application components
	queries := database.New(dbpool)

	ghClient, err := github.NewClient(cfg.GithubAPIURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create github client: %w", err)
	}
	var tokens syncer.TokenSource
	if appAuth := github.NewAppAuthenticator(ghClient, cfg.GithubAppID, cfg.GithubAppPrivateKey, logger); appAuth != nil {
		tokens = appAuth
	} else {
		logger.Warn("GitHub App credentials not set, push events will not sync trees")
	}

	llmClient, err := llm.NewClient(&llm.Config{
		Provider:  cfg.LLMProvider,
		Endpoint:  cfg.LLMBaseURL,
		Model:     cfg.LLMModel,
		APIKey:    cfg.LLMAPIKey,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   cfg.LLMTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	tokenService, err := auth.NewTokenService(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	gate := limiter.New(queries, cfg.GenerationRepoCap, logger)
	genService := generation.NewService(queries, llmClient, gate, logger)
	appSyncer := syncer.NewSyncer(queries, database.NewTxRunner(dbpool), ghClient, tokens, cfg.SyncConcurrency, logger)
	orchestrator := webhook.NewOrchestrator(cfg.GithubWebhookSecret, appSyncer, logger)

	router := api.NewRouter(api.Deps{
		DB:             queries,
		Generator:      genService,
		Syncer:         appSyncer,
		Webhooks:       orchestrator,
		Tokens:         tokenService,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	// 6. Start the HTTP server in a separate goroutine
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 7. Wait for shutdown signal
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received. Draining connections.")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped. Exiting.")
	return nil
}

func runMigrations(migrationsURL, dbURL string) error {
	m, err := migrate.New(migrationsURL, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
