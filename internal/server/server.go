package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/cors"

	"github.com/dukerupert/pantry/internal/api"
	"github.com/dukerupert/pantry/internal/config"
	"github.com/dukerupert/pantry/internal/handler"
	"github.com/dukerupert/pantry/internal/keystore"
	"github.com/dukerupert/pantry/internal/middleware"
	"github.com/dukerupert/pantry/internal/push"
	"github.com/dukerupert/pantry/internal/state"
	"github.com/dukerupert/pantry/internal/store"
	ws "github.com/dukerupert/pantry/internal/websocket"
)

// Mutating routes allow this many requests per second per client IP.
const (
	writeRate  = 5
	writeBurst = 20
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	allowedOrigins []string
	inventoryH     *handler.InventoryHandler
	shoppingH      *handler.ShoppingHandler
	mealPlanH      *handler.MealPlanHandler
	dashboardH     *handler.DashboardHandler
	profileH       *handler.ProfileHandler
	sessionH       *handler.SessionHandler
	settingsH      *handler.SettingsHandler
	pushH          *handler.PushHandler
	rateLimiter    *middleware.RateLimiter
	clientIP       func(*http.Request) string
	pushScheduler  *push.Scheduler
	logger         *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	now := time.Now

	clientIP := middleware.RemoteIP
	if cfg.TrustProxy {
		clientIP = middleware.RealIP
	}

	settingsStore := store.NewSettingsStore(db)
	profileStore := store.NewProfileStore(db)
	pushStore := store.NewPushStore(db)

	keys := keystore.New(store.NewTokenStore(db), cfg.KeystorePassphrase)
	client := api.NewClient(api.Config{
		BaseURL: cfg.APIURL,
		Rate:    cfg.APIRate,
	}, keys, logger.With("component", "api"))

	inventory := state.NewInventory(client, hub)
	shopping := state.NewShopping(client, hub)
	mealPlan := state.NewMealPlan(client)
	dashboard := &state.Dashboard{Inventory: inventory, Shopping: shopping, MealPlan: mealPlan, Now: now}

	// Push notification service + scheduler
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.RemindersEnabled() {
		pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		pushSched = push.NewScheduler(pushSvc, inventory, pushStore, settingsStore, cfg.ReminderInterval, logger.With("component", "push"))
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		db:             db,
		hub:            hub,
		allowedOrigins: cfg.AllowedOrigins,
		inventoryH:     handler.NewInventoryHandler(inventory, now, logger.With("component", "inventory")),
		shoppingH:      handler.NewShoppingHandler(shopping, logger.With("component", "shopping")),
		mealPlanH:      handler.NewMealPlanHandler(mealPlan, profileStore, settingsStore, now, logger.With("component", "meal_plan")),
		dashboardH:     handler.NewDashboardHandler(dashboard, profileStore, settingsStore, now, logger.With("component", "dashboard")),
		profileH:       handler.NewProfileHandler(profileStore, hub, logger.With("component", "profile")),
		sessionH:       handler.NewSessionHandler(keys, now, logger.With("component", "session")),
		settingsH:      handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		pushH:          pushH,
		rateLimiter:    middleware.NewRateLimiter(writeRate, writeBurst),
		clientIP:       clientIP,
		pushScheduler:  pushSched,
		logger:         logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// PushScheduler returns the expiry reminder scheduler, or nil when web push
// is not configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /ws", ws.Handler(s.hub, originHosts(s.allowedOrigins)))

	mux.HandleFunc("GET /api/inventory", s.inventoryH.List)
	mux.HandleFunc("POST /api/inventory", s.rateLimitedHandler(s.inventoryH.Create))
	mux.HandleFunc("PUT /api/inventory/{id}", s.rateLimitedHandler(s.inventoryH.Update))
	mux.HandleFunc("DELETE /api/inventory/{id}", s.rateLimitedHandler(s.inventoryH.Delete))

	mux.HandleFunc("GET /api/shopping-list", s.shoppingH.List)
	mux.HandleFunc("POST /api/shopping-list/{id}/toggle", s.rateLimitedHandler(s.shoppingH.Toggle))

	mux.HandleFunc("GET /api/meal-plan", s.mealPlanH.Get)
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Get)

	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.rateLimitedHandler(s.profileH.Update))

	mux.HandleFunc("GET /api/session", s.sessionH.Get)
	mux.HandleFunc("PUT /api/session", s.rateLimitedHandler(s.sessionH.Put))
	mux.HandleFunc("DELETE /api/session", s.rateLimitedHandler(s.sessionH.Delete))

	mux.HandleFunc("GET /api/settings", s.settingsH.List)
	mux.HandleFunc("PUT /api/settings/{key}", s.rateLimitedHandler(s.settingsH.Update))

	// Push notification API routes
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("POST /api/push/subscribe", s.rateLimitedHandler(s.pushH.Subscribe))
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.rateLimitedHandler(s.pushH.Unsubscribe))
		mux.HandleFunc("POST /api/push/test", s.rateLimitedHandler(s.pushH.TestNotification))
	}

	var h http.Handler = mux
	if len(s.allowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
		}).Handler(h)
	}

	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "database unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "clients": s.hub.ClientCount()})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, s.clientIP)(h).ServeHTTP
}

// originHosts turns CORS origins into the host patterns the websocket
// upgrade checks against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, o)
	}
	return hosts
}
