package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orcalabs/orcamentos-backend/api/controllers"
	"github.com/orcalabs/orcamentos-backend/api/middleware"
	authsvc "github.com/orcalabs/orcamentos-backend/internal/auth"
	budgetsvc "github.com/orcalabs/orcamentos-backend/internal/budgets"
	"github.com/orcalabs/orcamentos-backend/internal/catalog"
	"github.com/orcalabs/orcamentos-backend/internal/export"
	usersvc "github.com/orcalabs/orcamentos-backend/internal/users"
	"github.com/orcalabs/orcamentos-backend/pkg/auth/session"
	"github.com/orcalabs/orcamentos-backend/pkg/config"
	"github.com/orcalabs/orcamentos-backend/pkg/db"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	"github.com/orcalabs/orcamentos-backend/pkg/logger"
	"github.com/orcalabs/orcamentos-backend/pkg/metrics"
	"github.com/orcalabs/orcamentos-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager session.AccessSessionChecker
	AuthService    authsvc.Service
	UserService    usersvc.Service
	CatalogService catalog.Service
	BudgetService  budgetsvc.Service
	ExportService  export.Service
	Registry       *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	if deps.Registry != nil {
		httpMetrics := metrics.NewHTTPMetrics(deps.Registry)
		r.Use(middleware.Metrics(httpMetrics))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Put("/update-password", controllers.AuthUpdatePassword(deps.UserService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleSuperUser.String(), logg))
				r.Post("/register", controllers.AuthRegisterSeller(deps.UserService, logg))
				r.Get("/sellers", controllers.AuthListSellers(deps.UserService, logg))
				r.Put("/update-seller/{sellerId}", controllers.AuthUpdateSeller(deps.UserService, logg))
				r.Put("/enable/{sellerId}", controllers.AuthSetSellerEnabled(deps.UserService, true, logg))
				r.Put("/disable/{sellerId}", controllers.AuthSetSellerEnabled(deps.UserService, false, logg))
				r.Put("/reset-password/{sellerId}", controllers.AuthResetSellerPassword(deps.UserService, logg))
			})
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.CatalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
			r.Get("/{productId}/addons", controllers.ProductAddons(deps.CatalogService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleSuperUser.String(), logg))
				r.Post("/", controllers.ProductCreate(deps.CatalogService, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(deps.CatalogService, logg))
			})
		})

		r.Route("/addons", func(r chi.Router) {
			r.Get("/", controllers.AddonList(deps.CatalogService, logg))
			r.Get("/{addonId}", controllers.AddonDetail(deps.CatalogService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleSuperUser.String(), logg))
				r.Post("/", controllers.AddonCreate(deps.CatalogService, logg))
				r.Patch("/{addonId}", controllers.AddonUpdate(deps.CatalogService, logg))
			})
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", controllers.BudgetList(deps.BudgetService, logg))
			r.Post("/", controllers.BudgetCreate(deps.BudgetService, logg))
			r.Get("/{budgetId}", controllers.BudgetDetail(deps.BudgetService, logg))
			r.Put("/{budgetId}/details", controllers.BudgetUpdateDetails(deps.BudgetService, logg))
			r.Post("/{budgetId}/items", controllers.BudgetAddItem(deps.BudgetService, logg))
			r.Delete("/{budgetId}/items/{itemId}", controllers.BudgetRemoveItem(deps.BudgetService, logg))
			r.Put("/{budgetId}/addons", controllers.BudgetUpdateItemAddons(deps.BudgetService, logg))
			r.Patch("/{budgetId}/sell", controllers.BudgetSell(deps.BudgetService, logg))
			r.Get("/{budgetId}/export", controllers.BudgetExport(deps.BudgetService, deps.ExportService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleSuperUser.String(), logg))
				r.Patch("/{budgetId}/approve", controllers.BudgetApprove(deps.BudgetService, logg))
				r.Patch("/{budgetId}/reject", controllers.BudgetReject(deps.BudgetService, logg))
			})
		})
	})

	return r
}
