/*
Package main is the entry point for the From Metro server.

It loads configuration (optionally from a .env file), initializes the global logger,
builds the in-memory presence registry and the station catalog, serves the REST API,
and shuts down gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"izmetro/internal/app/presence"
	"izmetro/internal/app/station"
	"izmetro/internal/configs"
	"izmetro/internal/handler"
	"izmetro/internal/pkg/logx"
)

func main() {
	// A missing .env file is fine; the environment may already be populated.
	envErr := godotenv.Load()

	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment(), os.Stdout)
	if envErr != nil {
		logx.Debug("No .env file loaded", "reason", envErr.Error())
	}
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("seed_sample_users", cfg.SeedSampleUsers).
		Dur("user_offline_after", cfg.UserOfflineAfter).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := station.LoadCatalog()
	if err != nil {
		logx.Fatal(err, "Failed to load station catalog")
	}

	registry := presence.NewRegistry(presence.Options{
		OfflineAfter: cfg.UserOfflineAfter,
		PurgeAfter:   cfg.UserPurgeAfter,
	})

	if cfg.SeedSampleUsers {
		samples, err := presence.SampleUsers()
		if err != nil {
			logx.Fatal(err, "Failed to load sample users")
		}
		logx.Info("Sample users seeded", "count", registry.Seed(samples))
	}

	router := handler.Router(ctx, &handler.AppDeps{
		Registry: registry,
		Catalog:  catalog,
		Config:   cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("From Metro server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	registry.Shutdown()

	logx.Info("Server gracefully stopped.")
}
