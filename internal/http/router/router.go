package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	_ "github.com/rogerio-castellano/sabiboss/docs"
	"github.com/rogerio-castellano/sabiboss/internal/http/ban"
	"github.com/rogerio-castellano/sabiboss/internal/http/handlers"
	mw "github.com/rogerio-castellano/sabiboss/internal/http/middleware"
	rl "github.com/rogerio-castellano/sabiboss/internal/http/rate_limiter"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Options are the collaborators the router needs besides the
// handlers' package-level dependencies.
type Options struct {
	Registry *workspace.Registry
	Limiters *rl.Limiters
	// Guard is nil when Redis is not configured.
	Guard  *ban.Guard
	Logger *slog.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(opts.Limiters, opts.Guard, opts.Logger))
		r.Post("/signup", handlers.SignupHandler)
		r.Post("/login", handlers.LoginHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(opts.Registry))

		r.Post("/logout", handlers.LogoutHandler)
		r.Get("/me", handlers.MeHandler)
		r.Get("/notifications", handlers.NotificationsHandler)
		r.Get("/dashboard", handlers.GetDashboardMetricsHandler)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", handlers.Customers.List)
			r.Post("/", handlers.Customers.Create)
			r.Post("/refetch", handlers.Customers.Refetch)
			r.Patch("/{id}", handlers.Customers.Update)
			r.Delete("/{id}", handlers.Customers.Delete)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", handlers.Expenses.List)
			r.Post("/", handlers.Expenses.Create)
			r.Post("/refetch", handlers.Expenses.Refetch)
			r.Delete("/{id}", handlers.Expenses.Delete)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", handlers.Inventory.List)
			r.Post("/", handlers.Inventory.Create)
			r.Post("/refetch", handlers.Inventory.Refetch)
			r.Post("/import", handlers.ImportInventoryHandler)
			r.Patch("/{id}", handlers.Inventory.Update)
			r.Delete("/{id}", handlers.Inventory.Delete)
			r.Post("/{id}/adjust", handlers.AdjustQuantityHandler)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", handlers.Sales.List)
			r.Post("/", handlers.Sales.Create)
			r.Post("/refetch", handlers.Sales.Refetch)
			r.Get("/export", handlers.ExportSalesHandler)
			r.Delete("/{id}", handlers.Sales.Delete)
		})
	})

	return r
}
