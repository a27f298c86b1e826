package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astropet/platform/internal/app"
	"github.com/astropet/platform/internal/infra"
	"github.com/astropet/platform/internal/sync"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.NewApp(app.Deps{
		AuthorityBaseURL:   cfg.AuthorityBaseURL,
		SessionCachePath:   cfg.SessionCachePath,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("wire app: %w", err)
	}

	// Change feed from the authority: a published event for an entity kind
	// triggers a full reload of that kind.
	if cfg.KafkaEnabled {
		reader := infra.NewFeedReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, true, logger)
		defer reader.Close()

		consumer := sync.NewConsumer(reader, a.Engine, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("change feed consumer stopped", "error", err)
			}
		}()
		logger.Info("change feed consumer started", "topic", cfg.KafkaTopic)
	}

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
