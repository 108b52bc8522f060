// Package review lets a customer review their finished orders.
package review

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"storefront/internal/model"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// User-visible messages.
const (
	LoadErrorMessage   = "Failed to load data from the server."
	SubmitErrorMessage = "Failed to add the review. Please try again."
	AddedMessage       = "Review added!"
)

// ReviewsRoute is where the form moves after a successful submission.
const ReviewsRoute = "/reviews"

// API is the part of the gateway the review form needs.
type API interface {
	CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error)
	Reviews(ctx context.Context) ([]model.Review, error)
	CreateReview(ctx context.Context, orderID int64, req model.ReviewRequest) error
}

// Identity supplies the signed-in customer's id.
type Identity interface {
	CurrentUserIDInt(ctx context.Context) (int64, bool)
}

// Redirector moves the client to another route.
type Redirector interface {
	Redirect(path string)
}

// Form holds the customer's orders and the review being written.
type Form struct {
	mu       sync.Mutex
	api      API
	identity Identity
	redirect Redirector
	logger   zerolog.Logger

	orders   []model.Order
	reviews  []model.Review
	selected *model.Order
	draft    model.ReviewRequest
	loading  bool
	err      string
	message  string
}

// NewForm creates a review form.
func NewForm(api API, identity Identity, redirect Redirector, logger zerolog.Logger) *Form {
	return &Form{
		api:      api,
		identity: identity,
		redirect: redirect,
		logger:   logger.With().Str("component", "review").Logger(),
		draft:    model.ReviewRequest{Rating: 1},
	}
}

// Load fetches the customer's orders and all reviews.
func (f *Form) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.err = ""
	f.mu.Unlock()

	customerID, ok := f.identity.CurrentUserIDInt(ctx)
	if !ok {
		f.mu.Lock()
		f.loading = false
		f.err = LoadErrorMessage
		f.mu.Unlock()
		f.logger.Error().Msg("missing customer id in session")
		return model.ErrMissingUserID
	}

	var (
		orders  []model.Order
		reviews []model.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = f.api.CustomerOrders(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = f.api.Reviews(gctx)
		return err
	})
	err := g.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		f.logger.Error().Err(err).Int64("customer_id", customerID).Msg("failed to load orders")
		f.err = LoadErrorMessage
		return fmt.Errorf("failed to load orders: %w", err)
	}
	f.orders = orders
	f.reviews = reviews
	return nil
}

// Open selects an order for reviewing. Only finished orders without a
// review can be opened.
func (f *Form) Open(orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var order *model.Order
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			order = &f.orders[i]
			break
		}
	}
	if order == nil {
		return model.ErrOrderNotFound
	}
	if !order.Status.IsTerminal() {
		f.message = model.ErrReviewNotAllowed.Message
		return model.ErrReviewNotAllowed
	}
	for _, r := range f.reviews {
		if r.OrderID == orderID {
			f.message = model.ErrReviewExists.Message
			return model.ErrReviewExists
		}
	}

	selected := *order
	f.selected = &selected
	f.draft = model.ReviewRequest{Rating: 1}
	f.message = ""
	return nil
}

// SetRating sets the draft rating.
func (f *Form) SetRating(rating int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Rating = rating
}

// SetText sets the draft text.
func (f *Form) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Text = text
}

// Submit posts the review for the selected order.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.selected == nil {
		f.mu.Unlock()
		return model.ErrOrderNotFound
	}
	orderID := f.selected.ID
	req := model.ReviewRequest{Rating: f.draft.Rating, Text: strings.TrimSpace(f.draft.Text)}
	f.mu.Unlock()

	if err := validate.Struct(req); err != nil {
		return err
	}

	if err := f.api.CreateReview(ctx, orderID, req); err != nil {
		f.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to add review")
		f.mu.Lock()
		f.message = SubmitErrorMessage
		f.mu.Unlock()
		return fmt.Errorf("failed to add review: %w", err)
	}

	f.mu.Lock()
	f.selected = nil
	f.draft = model.ReviewRequest{Rating: 1}
	f.message = AddedMessage
	f.reviews = append(f.reviews, model.Review{OrderID: orderID, Rating: req.Rating, Text: req.Text})
	f.mu.Unlock()

	if f.redirect != nil {
		f.redirect.Redirect(ReviewsRoute)
	}
	return nil
}

// Orders returns the loaded orders.
func (f *Form) Orders() []model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Order, len(f.orders))
	copy(out, f.orders)
	return out
}

// Selected returns the order being reviewed.
func (f *Form) Selected() (model.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected == nil {
		return model.Order{}, false
	}
	return *f.selected, true
}

// Loading reports whether a load is in flight.
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Error returns the load error message.
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Message returns the last alert shown to the user.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Render writes the customer's orders.
func (f *Form) Render(w io.Writer) error {
	if msg := f.Error(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAPPROVED\tSTATUS\tCUSTOMER\tEMAIL\tPHONE\tITEMS")
	for _, o := range f.Orders() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			o.ID, o.ApprovalDateText(), o.Status.Name, o.CustomerName, o.Email, o.PhoneNumber, len(o.Items))
	}
	return tw.Flush()
}
