package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/orderengine/internal/auth"
	"github.com/kiwari-pos/orderengine/internal/config"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/handler"
	mw "github.com/kiwari-pos/orderengine/internal/middleware"
	"github.com/kiwari-pos/orderengine/internal/service"
	"github.com/kiwari-pos/orderengine/internal/ws"
	"github.com/sirupsen/logrus"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication, outlet scoping, and role-based middleware as needed.
// Committed order changes are published to the hub and to pub when non-nil.
func New(cfg *config.Config, pool *pgxpool.Pool, hub *ws.Hub, pub service.Publisher, log logrus.FieldLogger) (chi.Router, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := service.Options{
		Prefix:      cfg.OrderNumberPrefix,
		Location:    loc,
		LockTimeout: cfg.LockTimeout,
		Publisher:   service.Publishers{hub, pub},
		Logger:      log,
	}
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, opts)
	statusService := service.NewStatusService(pool, func(db database.DBTX) service.StatusStore {
		return database.New(db)
	}, opts)
	paymentService := service.NewPaymentService(pool, func(db database.DBTX) service.PaymentStore {
		return database.New(db)
	}, opts)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(database.New(pool), cfg.JWTSecret, cfg.TokenTTL, log)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/outlets/{oid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		r.Route("/outlets/{oid}", func(r chi.Router) {
			r.Use(mw.RequireOutlet)

			orderHandler := handler.NewOrderHandler(orderService, statusService, log)
			r.Route("/orders", func(r chi.Router) {
				orderHandler.RegisterRoutes(r)

				// Kitchen staff follow orders but do not take money.
				r.Route("/{id}/payments", func(r chi.Router) {
					r.Use(mw.RequireRole(auth.RoleOwner, auth.RoleManager, auth.RoleCashier))
					paymentHandler := handler.NewPaymentHandler(paymentService, log)
					paymentHandler.RegisterRoutes(r)
				})
			})
		})
	})

	log.Info("router initialized")
	return r, nil
}
