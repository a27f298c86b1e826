package authorityserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/astropet/platform/internal/catalog"
	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/handler"
	"github.com/astropet/platform/internal/ledger"
	"github.com/astropet/platform/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Server is the persistence authority: the durable owner of players, pets,
// inventory, balances and code consumptions. Every write is one database
// transaction posted through the ledger engine, with its outbox event in
// the same transaction.
type Server struct {
	pool      *pgxpool.Pool
	eng       *ledger.Engine
	players   repository.PlayerRepository
	pets      repository.PetRepository
	inventory repository.InventoryRepository
	catalog   catalog.Source
	logger    *slog.Logger
}

// Deps holds the collaborators a Server needs.
type Deps struct {
	Pool      *pgxpool.Pool
	Engine    *ledger.Engine
	Players   repository.PlayerRepository
	Pets      repository.PetRepository
	Inventory repository.InventoryRepository
	Catalog   catalog.Source
	Logger    *slog.Logger
}

// NewServer creates an authority server.
func NewServer(deps Deps) *Server {
	return &Server{
		pool:      deps.Pool,
		eng:       deps.Engine,
		players:   deps.Players,
		pets:      deps.Pets,
		inventory: deps.Inventory,
		catalog:   deps.Catalog,
		logger:    deps.Logger,
	}
}

// NewRouter builds the authority server chi.Router.
func (s *Server) NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(s.logger))
	r.Use(handler.Recovery(s.logger))
	r.Use(handler.JSONContentType)

	r.Get("/health", handler.HealthHandler(s.pool))

	r.Route("/players/{playerID}", func(r chi.Router) {
		r.Get("/", s.getPlayer)
		r.Get("/pets", s.listPets)
		r.Get("/inventory", s.listInventory)
		r.Post("/balance", s.adjustBalance)
		r.Post("/inventory", s.addInventory)
		r.Post("/inventory/{entryID}/remove", s.removeInventory)
		r.Post("/points", s.addPoints)
		r.Post("/collectibles", s.grantCollectible)
		r.Post("/codes", s.consumeCode)
		r.Post("/checkins", s.checkIn)
	})

	r.Put("/pets/{petID}/stats", s.savePetStats)

	return r
}

// withTx runs fn inside a transaction, committing on nil error.
func (s *Server) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, fn)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid " + name)
	}
	return id, nil
}

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	player, err := s.players.FindByID(r.Context(), s.pool, playerID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if player == nil {
		handler.RespondError(w, domain.ErrNotFound("player", playerID.String()))
		return
	}
	handler.RespondJSON(w, http.StatusOK, player)
}

func (s *Server) listPets(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	pets, err := s.pets.ListByOwner(r.Context(), s.pool, playerID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if pets == nil {
		pets = []domain.Pet{}
	}
	handler.RespondJSON(w, http.StatusOK, pets)
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	inv, err := s.inventory.ListByPlayer(r.Context(), s.pool, playerID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if inv == nil {
		inv = domain.Inventory{}
	}
	handler.RespondJSON(w, http.StatusOK, inv)
}

func (s *Server) adjustBalance(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var req struct {
		Kind           domain.CurrencyKind `json:"kind"`
		Delta          int64               `json:"delta"`
		IdempotencyKey string              `json:"idempotency_key"`
		Reason         string              `json:"reason"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	var result *domain.BalanceAdjustResult
	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		var execErr error
		result, execErr = s.eng.ExecuteBalanceAdjust(r.Context(), tx, ledger.BalanceAdjustParams{
			PlayerID:       playerID,
			Kind:           req.Kind,
			Delta:          req.Delta,
			Reason:         req.Reason,
			IdempotencyKey: req.IdempotencyKey,
		})
		return execErr
	})
	if err != nil {
		s.logger.Warn("balance adjust rejected", "player_id", playerID, "kind", req.Kind, "delta", req.Delta, "error", err)
		handler.RespondError(w, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"balances":   result.Player.Balances,
		"idempotent": result.Idempotent,
	})
}

func (s *Server) addInventory(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var req struct {
		ItemID   string `json:"item_id"`
		Quantity int    `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	var entry *domain.InventoryEntry
	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		var execErr error
		entry, execErr = s.eng.ExecuteInventoryCredit(r.Context(), tx, playerID, req.ItemID, req.Quantity)
		return execErr
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, entry)
}

func (s *Server) removeInventory(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	entryID, err := pathUUID(r, "entryID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		return s.eng.ExecuteInventoryDebit(r.Context(), tx, playerID, entryID, req.Quantity)
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) savePetStats(w http.ResponseWriter, r *http.Request) {
	petID, err := pathUUID(r, "petID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var stats domain.PetStats
	if err := handler.DecodeJSON(r, &stats); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	var pet *domain.Pet
	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		var execErr error
		pet, execErr = s.eng.ExecutePetStatsSave(r.Context(), tx, petID, stats)
		return execErr
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, pet)
}

func (s *Server) addPoints(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var req struct {
		Points int64 `json:"points"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	var player *domain.Player
	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		var execErr error
		player, execErr = s.eng.ExecuteAccountPointsAdd(r.Context(), tx, playerID, req.Points)
		return execErr
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, player)
}

func (s *Server) grantCollectible(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var req struct {
		CollectibleID string `json:"collectible_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		return s.eng.ExecuteCollectibleGrant(r.Context(), tx, playerID, req.CollectibleID)
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

// consumeCode resolves the code's usage cap from the catalog, then records
// the consumption under the per-player unique constraint.
func (s *Server) consumeCode(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	codes, err := s.catalog.Codes(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	var def *domain.RedeemCode
	for i := range codes {
		if codes[i].Matches(req.Code) {
			def = &codes[i]
			break
		}
	}
	if def == nil || !def.Enabled {
		handler.RespondError(w, domain.ErrNotFound("code", req.Code))
		return
	}

	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		return s.eng.ExecuteCodeConsume(r.Context(), tx, playerID, def.Code, def.MaxUses)
	})
	if err != nil {
		s.logger.Warn("code consume rejected", "player_id", playerID, "code", def.Code, "error", err)
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "consumed"})
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var streak *domain.CheckInStreak
	err = s.withTx(r.Context(), func(tx pgx.Tx) error {
		var execErr error
		streak, execErr = s.eng.ExecuteCheckIn(r.Context(), tx, playerID)
		return execErr
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, streak)
}
