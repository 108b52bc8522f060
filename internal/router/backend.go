package router

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options configures NewBackend.
type Options struct {
	JWTSecret  string
	BcryptCost int // zero keeps the bcrypt default
	LoginRate  rate.Limit
	LoginBurst int
}

// Backend is the assembled in-memory REST backend.
type Backend struct {
	Handler http.Handler
	DB      *repository.DB
	Auth    service.AuthService
}

// NewBackend wires repositories, services and handlers over db.
func NewBackend(db *repository.DB, opts Options, logger zerolog.Logger) (*Backend, error) {
	productRepo := repository.NewProductRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)
	referenceRepo := repository.NewReferenceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)

	var authOpts []service.AuthOption
	if opts.BcryptCost != 0 {
		authOpts = append(authOpts, service.WithBcryptCost(opts.BcryptCost))
	}
	authService, err := service.NewAuthService(userRepo, opts.JWTSecret, logger, authOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	productService := service.NewProductService(productRepo, referenceRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, referenceRepo, userRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, nil, logger)

	limit, burst := opts.LoginRate, opts.LoginBurst
	if limit == 0 {
		limit, burst = middleware.LoginRate, middleware.LoginBurst
	}

	h := New(Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Reviews:  handler.NewReviewHandler(reviewService, logger),
		Auth:     handler.NewAuthHandler(authService, logger),
	}, authService, middleware.NewRateLimiter(limit, burst, logger), db, logger)

	return &Backend{Handler: h, DB: db, Auth: authService}, nil
}

// SeedUser registers an account, typically the first employee.
func (b *Backend) SeedUser(ctx context.Context, email, password string, role model.Role) error {
	_, err := b.Auth.Register(ctx, model.Credentials{Email: email, Password: password}, role)
	if err != nil {
		return fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return nil
}
