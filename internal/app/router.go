package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kasira/kasira/internal/auth"
	"github.com/kasira/kasira/internal/catalog/categories"
	"github.com/kasira/kasira/internal/catalog/products"
	"github.com/kasira/kasira/internal/catalog/units"
	"github.com/kasira/kasira/internal/dashboard"
	"github.com/kasira/kasira/internal/observability"
	"github.com/kasira/kasira/internal/reports"
	"github.com/kasira/kasira/internal/salespeople"
	"github.com/kasira/kasira/internal/transactions"
	"github.com/kasira/kasira/internal/users"
	"github.com/kasira/kasira/internal/warehouse"
)

// RouterConfig aggregates everything the HTTP surface needs.
type RouterConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	Tokens  *auth.TokenManager

	Auth         *auth.Handler
	Users        *users.Handler
	Products     *products.Handler
	Categories   *categories.Handler
	Units        *units.Handler
	Sales        *salespeople.Handler
	Warehouse    *warehouse.Handler
	Transactions *transactions.Handler
	Dashboard    *dashboard.Handler
	Reports      *reports.Handler
}

// NewRouter builds the chi router: /health and /metrics are open, /api/auth
// handles login, and everything else under /api sits behind the bearer gate.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  cfg.Logger,
		Config:  cfg.Config,
		Metrics: cfg.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/health", handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", cfg.Auth.MountRoutes)

		api.Group(func(private chi.Router) {
			private.Use(auth.RequireAuth(cfg.Tokens))
			private.Route("/users", cfg.Users.MountRoutes)
			private.Route("/dashboard", cfg.Dashboard.MountRoutes)
			private.Route("/products", cfg.Products.MountRoutes)
			private.Route("/categories", cfg.Categories.MountRoutes)
			private.Route("/units", cfg.Units.MountRoutes)
			private.Route("/sales", cfg.Sales.MountRoutes)
			private.Route("/warehouses", cfg.Warehouse.MountRoutes)
			private.Route("/transactions", cfg.Transactions.MountRoutes)
			private.Route("/reports", cfg.Reports.MountRoutes)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
