package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	now        func() time.Time
	logger     zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	now func() time.Time,
	logger zerolog.Logger,
) ReviewService {
	if now == nil {
		now = time.Now
	}
	return &reviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		now:        now,
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

func (s *reviewService) List(ctx context.Context) ([]model.Review, error) {
	reviews, err := s.reviewRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, nil
}

// Create adds a review to a finished order owned by the caller.
func (s *reviewService) Create(ctx context.Context, orderID int64, req model.ReviewRequest, principal *Principal) (*model.Review, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	order, owner, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !principal.IsEmployee() && (principal == nil || owner == 0 || owner != principal.UserID) {
		return nil, ErrForbidden
	}
	if !order.Status.IsTerminal() {
		return nil, ErrReviewNotAllowed
	}

	review := &model.Review{
		OrderID:   orderID,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrReviewExists
		}
		s.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to create review")
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info().
		Int64("order_id", orderID).
		Int("rating", review.Rating).
		Msg("review created")
	return review, nil
}
