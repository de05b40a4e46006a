// Package app wires repositories, services and handlers for both binaries.
package app

import (
	"database/sql"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/kobe-cb/retail/internal/config"
	"github.com/kobe-cb/retail/internal/console"
	"github.com/kobe-cb/retail/internal/metrics"
	"github.com/kobe-cb/retail/internal/modules/admin"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/inventory"
	"github.com/kobe-cb/retail/internal/modules/order"
	"github.com/kobe-cb/retail/internal/modules/user"
)

// App holds the domain services built over one database handle.
type App struct {
	Users     user.Service
	Auth      auth.Service
	Orders    order.Service
	Inventory inventory.Service
	Admin     admin.Service

	radius float64
}

// New builds every repository and service from cfg.
func New(db *sql.DB, cfg *config.Config) *App {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Println("[WARN] JWT_SECRET is empty, using a random secret; tokens will not survive a restart.")
	}

	userRepo := user.NewPostgresRepository(db)
	storeRepo := inventory.NewStorePostgresRepository(db)
	productRepo := inventory.NewProductPostgresRepository(db)
	checker := auth.NewChecker(userRepo, storeRepo, productRepo)

	return &App{
		Users: user.NewService(userRepo, user.SignupCodes{
			Manager: cfg.ManagerSignupCode,
			Admin:   cfg.AdminSignupCode,
		}),
		Auth: auth.NewService(userRepo, auth.Options{
			Secret:                  []byte(secret),
			TokenTTL:                cfg.TokenTTL,
			AllowPlaintextPasswords: cfg.AllowPlaintextPasswords,
		}),
		Orders: order.NewService(order.NewPostgresRepository(db), userRepo, storeRepo, checker, order.Options{
			EnforceRadius: cfg.EnforceStoreRadius,
			Radius:        cfg.StoreRadius,
		}),
		Inventory: inventory.NewService(
			userRepo,
			storeRepo,
			productRepo,
			inventory.NewSupplyPostgresRepository(db),
			inventory.NewReportPostgresRepository(db),
			checker,
			inventory.Options{
				Radius:       cfg.StoreRadius,
				SupplyPolicy: cfg.SupplyGrantPolicy,
			},
		),
		Admin:  admin.NewService(userRepo, productRepo, checker),
		radius: cfg.StoreRadius,
	}
}

// ConsoleServices returns the services the text menu drives.
func (a *App) ConsoleServices() console.Services {
	return console.Services{
		Users:     a.Users,
		Auth:      a.Auth,
		Orders:    a.Orders,
		Inventory: a.Inventory,
		Admin:     a.Admin,
	}
}

// Radius is the configured store radius.
func (a *App) Radius() float64 { return a.radius }

// Router mounts the public, bearer-authenticated and metrics routes.
func (a *App) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Public ──────────────────────────────────────────────
	user.NewHandler(a.Users).RegisterRoutes(router)
	auth.NewHandler(a.Auth).RegisterRoutes(router)
	router.Handle("/metrics", metrics.Handler())

	// ── Authenticated ───────────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(a.Auth))
		order.NewHandler(a.Orders).RegisterRoutes(r)
		inventory.NewHandler(a.Inventory).RegisterRoutes(r)
		admin.NewHandler(a.Admin).RegisterRoutes(r)
	})

	return router
}
