//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/astropet/platform/internal/authorityserver"
	"github.com/astropet/platform/internal/catalog"
	"github.com/astropet/platform/internal/infra"
	"github.com/astropet/platform/internal/ledger"
	"github.com/astropet/platform/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	TestDBHost = "localhost"
	TestDBPort = 5435
	TestDBUser = "astropet"
	TestDBPass = "astropet"
	TestDBName = "astropet_test"
)

// TestEnv holds all resources for an integration test: an httptest.Server
// running the real authority router over the shared test database.
type TestEnv struct {
	Server *httptest.Server
	Pool   *pgxpool.Pool
	t      *testing.T
}

var (
	sharedPool *pgxpool.Pool
	poolOnce   sync.Once
	poolErr    error
)

func testDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		TestDBUser, TestDBPass, TestDBHost, TestDBPort, TestDBName)
}

func bootstrapDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		TestDBUser, TestDBPass, TestDBHost, TestDBPort, "astropet")
}

func ensureTestDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bPool, err := pgxpool.New(ctx, bootstrapDSN())
	if err != nil {
		return fmt.Errorf("connect bootstrap db: %w", err)
	}
	defer bPool.Close()

	var exists bool
	err = bPool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", TestDBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check db exists: %w", err)
	}

	if !exists {
		_, err = bPool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", TestDBName))
		if err != nil {
			return fmt.Errorf("create test db: %w", err)
		}
	}

	return nil
}

func runMigrations() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	dir := filepath.Join(findProjectRoot(), "db", "migrations")
	return infra.RunMigrations(testDSN(), dir, logger)
}

func findProjectRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "."
}

func getSharedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	poolOnce.Do(func() {
		if err := ensureTestDB(); err != nil {
			poolErr = err
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		poolCfg, err := pgxpool.ParseConfig(testDSN())
		if err != nil {
			poolErr = fmt.Errorf("parse pool config: %w", err)
			return
		}
		poolCfg.MaxConns = 10
		poolCfg.MinConns = 1

		sharedPool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			poolErr = fmt.Errorf("create pool: %w", err)
			return
		}

		if err := runMigrations(); err != nil {
			poolErr = fmt.Errorf("run migrations: %w", err)
			sharedPool.Close()
			sharedPool = nil
			return
		}
	})

	if poolErr != nil {
		t.Fatalf("failed to initialize test pool: %v", poolErr)
	}
	return sharedPool
}

// NewTestEnv creates a test environment with an httptest.Server backed by
// the real authority router and test DB.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	pool := getSharedPool(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	players := repository.NewPlayerRepository()
	pets := repository.NewPetRepository()
	inventory := repository.NewInventoryRepository()

	eng := ledger.NewEngine(ledger.Repos{
		Players:      players,
		Entries:      repository.NewWalletEntryRepository(),
		Pets:         pets,
		Inventory:    inventory,
		Codes:        repository.NewCodeRepository(),
		Collectibles: repository.NewCollectibleRepository(),
		CheckIns:     repository.NewCheckInRepository(),
		Outbox:       repository.NewOutboxRepository(),
	})

	srv := authorityserver.NewServer(authorityserver.Deps{
		Pool:      pool,
		Engine:    eng,
		Players:   players,
		Pets:      pets,
		Inventory: inventory,
		Catalog:   catalog.NewDevSource(),
		Logger:    logger,
	})

	server := httptest.NewServer(srv.NewRouter())

	env := &TestEnv{
		Server: server,
		Pool:   pool,
		t:      t,
	}
	t.Cleanup(func() {
		env.CleanAll()
		server.Close()
	})
	return env
}
