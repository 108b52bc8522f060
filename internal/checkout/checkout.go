// Package checkout is the cart page: line editing, the contact form and
// order submission.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// User-visible messages.
const (
	SuccessMessage   = "Order placed successfully!"
	FailureMessage   = "Failed to place the order. Please try again."
	EmptyCartMessage = "Your cart is empty."
)

// Form field names.
const (
	FieldCustomerName = "customerName"
	FieldEmail        = "email"
	FieldPhone        = "phoneNumber"
)

// Form is the customer contact form.
type Form struct {
	CustomerName string `json:"customerName" validate:"nonblank"`
	Email        string `json:"email" validate:"contact_email"`
	Phone        string `json:"phoneNumber" validate:"phone9"`
}

// Validate returns per-field messages; nil means the form is valid.
func (f Form) Validate() map[string]string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{"form": err.Error()}
}

// API is the part of the gateway checkout needs.
type API interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) error
}

// View holds the checkout state.
type View struct {
	mu     sync.Mutex
	api    API
	cart   *cart.Cart
	logger zerolog.Logger

	form        Form
	fieldErrors map[string]string
	message     string
	submitting  bool
}

// NewView creates a checkout view over c.
func NewView(api API, c *cart.Cart, logger zerolog.Logger) *View {
	return &View{
		api:    api,
		cart:   c,
		logger: logger.With().Str("component", "checkout").Logger(),
	}
}

// SetField updates one form field by name.
func (v *View) SetField(name, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch name {
	case FieldCustomerName:
		v.form.CustomerName = value
	case FieldEmail:
		v.form.Email = value
	case FieldPhone:
		v.form.Phone = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// SetForm replaces the whole form.
func (v *View) SetForm(f Form) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = f
}

// Form returns the current form values.
func (v *View) Form() Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// FieldErrors returns the messages from the last submission attempt.
func (v *View) FieldErrors() map[string]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]string, len(v.fieldErrors))
	for k, val := range v.fieldErrors {
		out[k] = val
	}
	return out
}

// Message returns the form-level confirmation or error message.
func (v *View) Message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

// Submitting reports whether an order is being sent.
func (v *View) Submitting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submitting
}

// Items returns the cart lines.
func (v *View) Items() []model.CartItem {
	return v.cart.Items()
}

// SetQuantity changes a line quantity.
func (v *View) SetQuantity(ctx context.Context, index, quantity int) {
	v.cart.SetQuantity(ctx, index, quantity)
}

// Remove deletes a line.
func (v *View) Remove(ctx context.Context, index int) {
	v.cart.Remove(ctx, index)
}

// Total returns the cart total.
func (v *View) Total() decimal.Decimal {
	return v.cart.Total()
}

// Submit validates the form and posts the order. On success the cart and
// the form are cleared; on failure both are left intact.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return errors.New("order submission already in progress")
	}

	items := v.cart.Items()
	if len(items) == 0 {
		v.message = EmptyCartMessage
		v.mu.Unlock()
		return model.ErrEmptyCart
	}

	form := Form{
		CustomerName: strings.TrimSpace(v.form.CustomerName),
		Email:        strings.TrimSpace(v.form.Email),
		Phone:        strings.TrimSpace(v.form.Phone),
	}
	if fields := form.Validate(); fields != nil {
		v.fieldErrors = fields
		v.message = ""
		v.mu.Unlock()
		return model.NewValidationError(fields)
	}

	v.fieldErrors = nil
	v.message = ""
	v.submitting = true
	v.mu.Unlock()

	req := model.OrderRequest{
		StatusID:     model.StatusIDNew,
		CustomerName: form.CustomerName,
		Email:        form.Email,
		PhoneNumber:  form.Phone,
		Items:        make([]model.OrderItemRequest, 0, len(items)),
	}
	for _, it := range items {
		req.Items = append(req.Items, model.OrderItemRequest{
			ProductID: it.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	err := v.api.CreateOrder(ctx, req)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitting = false

	if err != nil {
		v.logger.Error().Err(err).Int("items", len(items)).Msg("failed to place order")
		v.message = FailureMessage
		return fmt.Errorf("failed to place order: %w", err)
	}

	v.cart.Clear(ctx)
	v.form = Form{}
	v.message = SuccessMessage
	v.logger.Info().Int("items", len(items)).Msg("order placed")
	return nil
}

// Render writes the cart lines and total.
func (v *View) Render(w io.Writer) error {
	items := v.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, EmptyCartMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tQTY\tPRICE")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i, it.Name, it.Quantity, it.LineTotal().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %s\n", v.Total().StringFixed(2))
	return err
}
