package router

import (
	"context"
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP handlers the router serves.
type Handlers struct {
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Reviews  *handler.ReviewHandler
	Auth     *handler.AuthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	auth middleware.Authenticator,
	loginLimiter *middleware.RateLimiter,
	db Pinger,
	logger zerolog.Logger,
) http.Handler {
	if loginLimiter == nil {
		loginLimiter = middleware.NewRateLimiter(middleware.LoginRate, middleware.LoginBurst, logger)
	}

	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS -> Authenticate
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.CORS,
		middleware.Authenticate(auth, logger),
	)

	r.Get(middleware.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public
	r.Get("/products", h.Products.List)
	r.Get("/categories", h.Products.Categories)
	r.Get("/status", h.Products.Statuses)
	r.Post("/orders", h.Orders.Create)
	r.Group(func(r chi.Router) {
		r.Use(loginLimiter.Middleware)
		r.Post("/login", h.Auth.Login)
		r.Post("/register", h.Auth.Register)
	})

	// Any signed-in user
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(logger))
		r.Get("/orders/opinions", h.Reviews.List)
		r.Get("/orders/{id}", h.Orders.ListByCustomer)
		r.Post("/orders/{id}/opinions", h.Reviews.Create)
	})

	// Employees only
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleEmployee, logger))
		r.Put("/products/{id}", h.Products.Update)
		r.Get("/products/{id}/seo-description", h.Products.SEODescription)
		r.Get("/orders", h.Orders.List)
		r.Patch("/orders/{id}", h.Orders.UpdateStatus)
		r.Post("/init/custom", h.Products.InitCustom)
	})

	return r
}
