package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	referenceRepo repository.ReferenceRepository
	userRepo      repository.UserRepository
	logger        zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	referenceRepo repository.ReferenceRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		referenceRepo: referenceRepo,
		userRepo:      userRepo,
		logger:        logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder validates and stores a new order.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest, principal *Principal) (*model.Order, error) {
	if req == nil {
		return nil, fmt.Errorf("order request is nil")
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := validate.Struct(req); err != nil {
		s.logger.Warn().Err(err).Msg("order validation failed")
		return nil, err
	}

	statusID := req.StatusID
	if statusID == 0 {
		statusID = model.StatusIDNew
	}
	if _, err := s.referenceRepo.GetStatus(ctx, statusID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewValidationError(map[string]string{"statusId": "does not exist"})
		}
		return nil, fmt.Errorf("failed to check status: %w", err)
	}

	// Extract product IDs and validate they exist
	productIDs := make([]int64, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}

	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("product_count", len(productIDs)).
			Err(err).
			Msg("product validation failed")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewValidationError(map[string]string{"items": "contain unknown products"})
		}
		return nil, fmt.Errorf("failed to validate products: %w", err)
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}
	prices := make(map[int64]model.Product, len(products))
	for _, p := range products {
		prices[p.ID] = p
	}

	order := &model.Order{
		StatusID:     statusID,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Items:        make([]model.OrderItem, len(req.Items)),
	}
	for i, item := range req.Items {
		order.Items[i] = model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: prices[item.ProductID].UnitPrice,
		}
	}

	customerID := s.resolveCustomer(ctx, req.Email, principal)
	if err := s.orderRepo.Create(ctx, order, customerID); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("customer_id", customerID).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return order, nil
}

// resolveCustomer links an order to the signed-in customer, or to the
// customer account registered under the order's email.
func (s *orderService) resolveCustomer(ctx context.Context, email string, principal *Principal) int64 {
	if principal != nil && principal.Role == model.RoleCustomer {
		return principal.UserID
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil || user.Role != model.RoleCustomer {
		return 0
	}
	return user.ID
}

// List retrieves every order.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// ListByCustomer retrieves one customer's orders.
func (s *orderService) ListByCustomer(ctx context.Context, customerID int64, principal *Principal) ([]model.Order, error) {
	if principal == nil {
		return nil, ErrForbidden
	}
	if !principal.IsEmployee() && principal.UserID != customerID {
		s.logger.Warn().
			Int64("customer_id", customerID).
			Int64("user_id", principal.UserID).
			Msg("customer requested foreign orders")
		return nil, ErrForbidden
	}

	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus changes an order's status and approval date.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, patch model.OrderStatusPatch) error {
	if _, err := s.referenceRepo.GetStatus(ctx, patch.StatusID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewValidationError(map[string]string{"statusId": "does not exist"})
		}
		return fmt.Errorf("failed to check status: %w", err)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, patch.StatusID, patch.ApprovalDate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Int64("order_id", id).
		Int64("status_id", patch.StatusID).
		Bool("approved", patch.ApprovalDate != nil).
		Msg("order status updated")
	return nil
}
