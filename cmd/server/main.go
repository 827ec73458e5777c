// Command main is the entry point for the PromptVault backend server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptvault/internal/bootstrap"
	"promptvault/internal/config"
	"promptvault/internal/middleware"
	"promptvault/internal/observability"
	"promptvault/internal/server"
)

// @title PromptVault API
// @version 1.0
// @description Prompt sharing platform API with ratings, favorites, feedback and admin settings
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@promptvault.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8375
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	log := middleware.Logger

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	stopTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  observability.ServiceName,
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Error("failed to initialize runtime", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	srv.SetTracingShutdown(stopTracing)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("shutting down server", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", slog.String("error", err.Error()))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server resource shutdown error", slog.String("error", err.Error()))
	}
}
