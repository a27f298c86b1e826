package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/astropet/platform/internal/infra"
	"github.com/astropet/platform/internal/legacy"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	playersPath := flag.String("players", "", "path to the legacy players JSON export")
	petsPath := flag.String("pets", "", "path to the legacy pets JSON export")
	flag.Parse()

	if *playersPath == "" {
		return fmt.Errorf("-players is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

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

	importer := legacy.NewImporter(pool, logger)

	var players []legacy.Player
	if err := readJSON(*playersPath, &players); err != nil {
		return fmt.Errorf("read players export: %w", err)
	}
	for _, p := range players {
		if _, err := importer.ImportPlayer(ctx, p); err != nil {
			return fmt.Errorf("import player %s: %w", p.LegacyID, err)
		}
	}
	logger.Info("players imported", "count", len(players))

	if *petsPath != "" {
		var pets []legacy.Pet
		if err := readJSON(*petsPath, &pets); err != nil {
			return fmt.Errorf("read pets export: %w", err)
		}
		for _, p := range pets {
			if _, err := importer.ImportPet(ctx, p); err != nil {
				return fmt.Errorf("import pet %s: %w", p.LegacyID, err)
			}
		}
		logger.Info("pets imported", "count", len(pets))
	}

	readiness, err := importer.CheckReadiness(ctx)
	if err != nil {
		return fmt.Errorf("readiness check: %w", err)
	}
	logger.Info(readiness.Message, "ready", readiness.Ready)
	return nil
}

func readJSON(path string, dst interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(dst)
}
