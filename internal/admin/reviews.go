package admin

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ReviewDateLayout formats review creation dates.
const ReviewDateLayout = "2006-01-02"

// ReviewsManager is the read-only list of customer reviews.
type ReviewsManager struct {
	mu     sync.Mutex
	api    ReviewsAPI
	logger zerolog.Logger

	reviews []model.Review
	loading bool
	err     string
}

// NewReviewsManager creates a reviews manager.
func NewReviewsManager(api ReviewsAPI, logger zerolog.Logger) *ReviewsManager {
	return &ReviewsManager{
		api:    api,
		logger: logger.With().Str("component", "reviews-manager").Logger(),
	}
}

// Load fetches all reviews.
func (m *ReviewsManager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	m.mu.Unlock()

	reviews, err := m.api.Reviews(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to load reviews")
		m.err = LoadErrorMessage
		return fmt.Errorf("failed to load reviews: %w", err)
	}
	m.reviews = reviews
	return nil
}

// Reviews returns the loaded reviews.
func (m *ReviewsManager) Reviews() []model.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Review, len(m.reviews))
	copy(out, m.reviews)
	return out
}

// Loading reports whether Load is in flight.
func (m *ReviewsManager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Error returns the load error message.
func (m *ReviewsManager) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Render writes the reviews table.
func (m *ReviewsManager) Render(w io.Writer) error {
	if msg := m.Error(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tORDER\tRATING\tTEXT\tCREATED")
	for _, r := range m.Reviews() {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", r.ID, r.OrderID, r.Rating, r.Text, r.CreatedAt.Format(ReviewDateLayout))
	}
	return tw.Flush()
}
