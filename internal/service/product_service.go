package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// MaxSEOLength caps generated descriptions in characters.
const MaxSEOLength = 160

// maxProductsBeforeInit mirrors the storefront's bulk-init rule: a
// catalog holding more than this is considered initialized.
const maxProductsBeforeInit = 1

// productService implements ProductService.
type productService struct {
	productRepo   repository.ProductRepository
	referenceRepo repository.ReferenceRepository
	logger        zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	referenceRepo repository.ReferenceRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:   productRepo,
		referenceRepo: referenceRepo,
		logger:        logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves all products.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// Categories retrieves the product categories.
func (s *productService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.referenceRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// Statuses retrieves the order statuses.
func (s *productService) Statuses(ctx context.Context) ([]model.Status, error) {
	statuses, err := s.referenceRepo.Statuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get statuses: %w", err)
	}
	return statuses, nil
}

// Update validates and replaces a product.
func (s *productService) Update(ctx context.Context, id int64, p model.Product) (*model.Product, error) {
	if p.ID != 0 && p.ID != id {
		return nil, model.NewValidationError(map[string]string{"id": "does not match the path"})
	}
	p.ID = id

	if err := s.validateProduct(ctx, p); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("product validation failed")
		return nil, err
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return &p, nil
}

// SEODescription generates a search-friendly description for a product.
func (s *productService) SEODescription(ctx context.Context, id int64) (string, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	category := ""
	if c, err := s.referenceRepo.GetCategory(ctx, p.CategoryID); err == nil {
		category = c.Name
	}
	return seoDescription(*p, category), nil
}

func seoDescription(p model.Product, category string) string {
	var b strings.Builder
	b.WriteString("Buy ")
	b.WriteString(strings.TrimSpace(p.Name))
	if category != "" {
		b.WriteString(" in ")
		b.WriteString(category)
	}
	if !p.UnitPrice.IsZero() {
		b.WriteString(" for ")
		b.WriteString(p.UnitPrice.StringFixed(2))
	}
	b.WriteString(".")
	if desc := strings.TrimSpace(p.Description); desc != "" {
		b.WriteString(" ")
		b.WriteString(desc)
	}
	return truncate(b.String(), MaxSEOLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}

// InitCustom replaces an empty catalog with the supplied products.
func (s *productService) InitCustom(ctx context.Context, products []model.Product) (string, error) {
	if len(products) == 0 {
		return "", model.NewValidationError(map[string]string{"products": "must not be empty"})
	}

	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count products: %w", err)
	}
	if count > maxProductsBeforeInit {
		s.logger.Warn().Int("existing", count).Msg("catalog already initialized")
		return "", ErrAlreadyInitialized
	}

	for i, p := range products {
		if err := s.validateProduct(ctx, p); err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				return "", prefixFields(verr, fmt.Sprintf("products[%d].", i))
			}
			return "", err
		}
	}

	stored, err := s.productRepo.ReplaceAll(ctx, products)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", model.NewValidationError(map[string]string{"products": "contain duplicate ids"})
		}
		s.logger.Error().Err(err).Msg("failed to initialize catalog")
		return "", fmt.Errorf("failed to initialize catalog: %w", err)
	}

	s.logger.Info().Int("count", len(stored)).Msg("catalog initialized")
	return fmt.Sprintf("Database initialized with %d products", len(stored)), nil
}

// validateProduct checks the fields an editable product must carry.
func (s *productService) validateProduct(ctx context.Context, p model.Product) error {
	fields := make(map[string]string)
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "is required"
	}
	if !p.UnitPrice.IsPositive() {
		fields["unitPrice"] = "must be greater than 0"
	}
	if !p.UnitWeight.IsPositive() {
		fields["unitWeight"] = "must be greater than 0"
	}
	if _, err := s.referenceRepo.GetCategory(ctx, p.CategoryID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check category: %w", err)
		}
		fields["categoryId"] = "does not exist"
	}
	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}

func prefixFields(err *model.ValidationError, prefix string) *model.ValidationError {
	fields := make(map[string]string, len(err.Fields))
	for k, v := range err.Fields {
		fields[prefix+k] = v
	}
	return model.NewValidationError(fields)
}
