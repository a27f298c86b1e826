package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/google/uuid"
)

// HTTPClient talks to the authority server over its JSON API.
type HTTPClient struct {
	baseURL string
	logger  *slog.Logger
	client  *http.Client
}

// NewHTTPClient creates an authority client for the given base URL.
func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		logger:  logger,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) AdjustBalance(ctx context.Context, playerID uuid.UUID, delta domain.BalanceDelta, idemKey string) (domain.Balances, error) {
	var out struct {
		Balances domain.Balances `json:"balances"`
	}
	path := fmt.Sprintf("/players/%s/balance", playerID)
	body := map[string]interface{}{
		"kind":            delta.Kind,
		"delta":           delta.Delta,
		"idempotency_key": idemKey,
	}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return domain.Balances{}, err
	}
	return out.Balances, nil
}


func (c *HTTPClient) AddInventory(ctx context.Context, playerID uuid.UUID, itemID string, qty int) error {
	path := fmt.Sprintf("/players/%s/inventory", playerID)
	body := map[string]interface{}{"item_id": itemID, "quantity": qty}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *HTTPClient) RemoveInventory(ctx context.Context, playerID, entryID uuid.UUID, qty int) error {
	path := fmt.Sprintf("/players/%s/inventory/%s/remove", playerID, entryID)
	body := map[string]interface{}{"quantity": qty}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *HTTPClient) SavePetStats(ctx context.Context, petID uuid.UUID, stats domain.PetStats) error {
	path := fmt.Sprintf("/pets/%s/stats", petID)
	return c.do(ctx, http.MethodPut, path, stats, nil)
}

func (c *HTTPClient) AddAccountPoints(ctx context.Context, playerID uuid.UUID, points int64) error {
	path := fmt.Sprintf("/players/%s/points", playerID)
	return c.do(ctx, http.MethodPost, path, map[string]int64{"points": points}, nil)
}

func (c *HTTPClient) GrantCollectible(ctx context.Context, playerID uuid.UUID, collectibleID string) error {
	path := fmt.Sprintf("/players/%s/collectibles", playerID)
	return c.do(ctx, http.MethodPost, path, map[string]string{"collectible_id": collectibleID}, nil)
}

func (c *HTTPClient) ConsumeCode(ctx context.Context, playerID uuid.UUID, code string) error {
	path := fmt.Sprintf("/players/%s/codes", playerID)
	return c.do(ctx, http.MethodPost, path, map[string]string{"code": code}, nil)
}

func (c *HTTPClient) CheckIn(ctx context.Context, playerID uuid.UUID) (domain.CheckInStreak, error) {
	var out domain.CheckInStreak
	path := fmt.Sprintf("/players/%s/checkins", playerID)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return domain.CheckInStreak{}, err
	}
	return out, nil
}

func (c *HTTPClient) LoadPlayer(ctx context.Context, playerID uuid.UUID) (*domain.Player, error) {
	var out domain.Player
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/players/%s", playerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) LoadPets(ctx context.Context, playerID uuid.UUID) ([]domain.Pet, error) {
	var out []domain.Pet
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/players/%s/pets", playerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) LoadInventory(ctx context.Context, playerID uuid.UUID) (domain.Inventory, error) {
	var out domain.Inventory
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/players/%s/inventory", playerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one JSON request against the authority. Non-2xx responses are
// surfaced as errors carrying the authority's error code when present.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("authority call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var appErr domain.AppError
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &appErr) == nil && appErr.Code != "" {
			appErr.Status = resp.StatusCode
			return &appErr
		}
		return fmt.Errorf("authority returned %d for %s %s", resp.StatusCode, method, path)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
