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

	"storefront/internal/catalogfile"
	"storefront/internal/config"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "mockapi")
	logger.Info().Msg("starting storefront mock backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := repository.NewDB(repository.DefaultSeed())

	if cfg.Mock.SeedFile != "" {
		loader := catalogfile.Open(ctx, cfg.S3, logger)
		products, err := catalogfile.LoadProducts(ctx, loader, cfg.Mock.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to load seed catalog: %w", err)
		}
		stored, err := repository.NewProductRepository(db, logger).ReplaceAll(ctx, products)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		logger.Info().
			Str("file", cfg.Mock.SeedFile).
			Int("count", len(stored)).
			Msg("seeded products from catalog file")
	}

	backend, err := router.NewBackend(db, router.Options{JWTSecret: cfg.Mock.JWTSecret}, logger)
	if err != nil {
		return fmt.Errorf("failed to build backend: %w", err)
	}
	if err := backend.SeedUser(ctx, cfg.Mock.EmployeeEmail, cfg.Mock.EmployeePassword, model.RoleEmployee); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Mock.Address(),
		Handler:      backend.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().
			Str("address", cfg.Mock.Address()).
			Str("employee", cfg.Mock.EmployeeEmail).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
