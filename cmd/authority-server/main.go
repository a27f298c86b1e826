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

	"github.com/astropet/platform/internal/authorityserver"
	"github.com/astropet/platform/internal/catalog"
	"github.com/astropet/platform/internal/infra"
	"github.com/astropet/platform/internal/ledger"
	"github.com/astropet/platform/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("authority server failed", "error", err)
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

	if err := infra.RunMigrations(cfg.DSN(), cfg.MigrationsDir, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	players := repository.NewPlayerRepository()
	entries := repository.NewWalletEntryRepository()
	pets := repository.NewPetRepository()
	inventory := repository.NewInventoryRepository()
	codes := repository.NewCodeRepository()
	collectibles := repository.NewCollectibleRepository()
	checkins := repository.NewCheckInRepository()
	outbox := repository.NewOutboxRepository()

	eng := ledger.NewEngine(ledger.Repos{
		Players:      players,
		Entries:      entries,
		Pets:         pets,
		Inventory:    inventory,
		Codes:        codes,
		Collectibles: collectibles,
		CheckIns:     checkins,
		Outbox:       outbox,
	})

	srv := authorityserver.NewServer(authorityserver.Deps{
		Pool:      pool,
		Engine:    eng,
		Players:   players,
		Pets:      pets,
		Inventory: inventory,
		Catalog:   catalog.NewCached(catalog.NewDevSource()),
		Logger:    logger,
	})

	addr := fmt.Sprintf(":%d", cfg.AuthorityPort)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.NewRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("authority server starting", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
