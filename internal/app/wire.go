package app

import (
	"log/slog"
	"time"

	"github.com/astropet/platform/internal/authority"
	"github.com/astropet/platform/internal/catalog"
	"github.com/astropet/platform/internal/guard"
	"github.com/astropet/platform/internal/handler"
	"github.com/astropet/platform/internal/notify"
	"github.com/astropet/platform/internal/projection"
	"github.com/astropet/platform/internal/reconciler"
	"github.com/astropet/platform/internal/state"
	"github.com/go-chi/chi/v5"
)

// Deps holds everything NewApp needs from the process entrypoint.
type Deps struct {
	AuthorityBaseURL   string
	SessionCachePath   string
	CORSAllowedOrigins string
	Sound              notify.SoundPlayer
	Logger             *slog.Logger
}

// App is the assembled api process: the state container, the reconciler
// engine over the authority client, and the HTTP surface.
type App struct {
	Container *state.Container
	Engine    *reconciler.Engine
	Notifier  *notify.Notifier
	Catalog   catalog.Source
	Cache     projection.Store
	Router    chi.Router
}

// NewApp wires the api process.
func NewApp(deps Deps) (*App, error) {
	logger := deps.Logger
	sound := deps.Sound
	if sound == nil {
		sound = notify.NopSound{}
	}

	container := state.NewContainer()
	notifier := notify.New(container, sound, logger)

	cache, err := projection.NewFileStore(deps.SessionCachePath)
	if err != nil {
		return nil, err
	}

	source := catalog.NewCached(catalog.NewDevSource())

	client := authority.NewGuarded(
		authority.NewHTTPClient(deps.AuthorityBaseURL, logger),
		guard.NewCircuitBreaker(5, 30*time.Second),
	)

	engine := reconciler.NewEngine(reconciler.Deps{
		Container: container,
		Authority: client,
		Catalog:   source,
		Notifier:  notifier,
		Logger:    logger,
		Purchases: guard.NewRateLimiter(10, 10*time.Second),
	})

	router := newRouter(routerDeps{
		engine:    engine,
		container: container,
		notifier:  notifier,
		catalog:   source,
		cache:     cache,
		origins:   deps.CORSAllowedOrigins,
		logger:    logger,
	})

	return &App{
		Container: container,
		Engine:    engine,
		Notifier:  notifier,
		Catalog:   source,
		Cache:     cache,
		Router:    router,
	}, nil
}

type routerDeps struct {
	engine    *reconciler.Engine
	container *state.Container
	notifier  *notify.Notifier
	catalog   catalog.Source
	cache     projection.Store
	origins   string
	logger    *slog.Logger
}

// newRouter assembles the chi.Router with all routes and middleware.
func newRouter(deps routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(deps.logger))
	r.Use(handler.Recovery(deps.logger))
	r.Use(handler.CORS(deps.origins))
	r.Use(handler.JSONContentType)

	r.Get("/health", handler.HealthHandler(nil))

	session := handler.NewSessionHandler(deps.engine, deps.container, deps.cache)
	wallet := handler.NewWalletHandler(deps.engine, deps.container)
	store := handler.NewStoreHandler(deps.engine, deps.catalog)
	inventory := handler.NewInventoryHandler(deps.engine, deps.container)
	redeem := handler.NewRedeemHandler(deps.engine)
	notifications := handler.NewNotificationHandler(deps.notifier, deps.container)
	player := handler.NewPlayerHandler(deps.engine, deps.container)

	r.Route("/session", func(r chi.Router) {
		r.Post("/start", session.Start)
		r.Post("/save", session.Save)
		r.Get("/state", session.State)
	})

	r.Route("/wallet", func(r chi.Router) {
		r.Get("/", wallet.Balances)
		r.Post("/adjust", wallet.Adjust)
	})

	r.Route("/stores/{storeID}", func(r chi.Router) {
		r.Get("/", store.Get)
		r.Post("/listings/{listingID}/purchase", store.Purchase)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", inventory.List)
		r.Post("/{entryID}/use", inventory.Use)
	})

	r.Post("/codes/redeem", redeem.Redeem)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", notifications.List)
		r.Post("/read-all", notifications.MarkAllRead)
		r.Post("/{notificationID}/read", notifications.MarkRead)
	})

	r.Get("/me", player.Me)
	r.Get("/pets", player.Pets)
	r.Get("/collectibles", player.Collectibles)
	r.Get("/achievements", player.Achievements)
	r.Post("/checkins", player.CheckIn)
	r.Put("/me/map-position", player.SetMapPosition)
	r.Put("/me/screen", player.SetScreen)

	return r
}
