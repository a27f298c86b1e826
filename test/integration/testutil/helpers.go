//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
)

// CreatePlayer inserts a player row directly and returns its ID.
func (env *TestEnv) CreatePlayer(username string, xenocoins, cash int64) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := uuid.New()
	_, err := env.Pool.Exec(ctx,
		`INSERT INTO players (id, username, xenocoins, cash) VALUES ($1, $2, $3, $4)`,
		id, username, xenocoins, cash)
	if err != nil {
		env.t.Fatalf("CreatePlayer: %v", err)
	}
	return id
}

// CreatePet inserts a pet row for the given owner and returns its ID.
func (env *TestEnv) CreatePet(ownerID uuid.UUID, name string, stats domain.PetStats) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := json.Marshal(stats)
	if err != nil {
		env.t.Fatalf("CreatePet: marshal stats: %v", err)
	}

	id := uuid.New()
	_, err = env.Pool.Exec(ctx,
		`INSERT INTO pets (id, owner_id, name, species, level, stats) VALUES ($1, $2, $3, 'gliese', 1, $4)`,
		id, ownerID, name, raw)
	if err != nil {
		env.t.Fatalf("CreatePet: %v", err)
	}
	return id
}

// Balances reads a player's currency columns directly.
func (env *TestEnv) Balances(playerID uuid.UUID) (xenocoins, cash int64) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := env.Pool.QueryRow(ctx,
		`SELECT xenocoins::bigint, cash::bigint FROM players WHERE id = $1`, playerID).
		Scan(&xenocoins, &cash)
	if err != nil {
		env.t.Fatalf("Balances: %v", err)
	}
	return xenocoins, cash
}

// OutboxCount returns the number of outbox events for an aggregate.
func (env *TestEnv) OutboxCount(aggregateID string) int {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n int
	err := env.Pool.QueryRow(ctx,
		`SELECT count(*) FROM event_outbox WHERE "aggregateId" = $1`, aggregateID).Scan(&n)
	if err != nil {
		env.t.Fatalf("OutboxCount: %v", err)
	}
	return n
}

// GET performs a GET request against the test server.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with a JSON body against the test server.
func (env *TestEnv) POST(path string, body interface{}) *http.Response {
	env.t.Helper()
	return env.send(http.MethodPost, path, body)
}

// PUT performs a PUT request with a JSON body against the test server.
func (env *TestEnv) PUT(path string, body interface{}) *http.Response {
	env.t.Helper()
	return env.send(http.MethodPut, path, body)
}

func (env *TestEnv) send(method, path string, body interface{}) *http.Response {
	env.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode body: %v", method, path, err)
		}
	}

	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}
