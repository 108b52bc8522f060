package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Product editor messages.
const (
	UpdateFailedMessage  = "Failed to update the product. Please try again."
	UnknownServerMessage = "Unknown server error."
	SEOFailedMessage     = "Failed to generate the SEO description. Please try again."
)

// Draft field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldUnitPrice   = "unitPrice"
	FieldUnitWeight  = "unitWeight"
	FieldCategoryID  = "categoryId"
)

// Draft is a product being edited. Numeric fields stay text until submit.
type Draft struct {
	ID              int64
	Name            string
	Description     string
	DescriptionHTML string
	UnitPrice       string
	UnitWeight      string
	CategoryID      string
	ImageURL        string
}

func draftFrom(p model.Product) Draft {
	return Draft{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		UnitPrice:       p.UnitPrice.String(),
		UnitWeight:      p.UnitWeight.String(),
		CategoryID:      strconv.FormatInt(p.CategoryID, 10),
		ImageURL:        p.ImageURL,
	}
}

// Product converts the draft, reporting every field that does not parse.
func (d Draft) Product() (model.Product, map[string]string) {
	fields := map[string]string{}

	if strings.TrimSpace(d.Name) == "" {
		fields[FieldName] = "is required"
	}
	price, err := decimal.NewFromString(strings.TrimSpace(d.UnitPrice))
	if err != nil || !price.IsPositive() {
		fields[FieldUnitPrice] = "must be a positive number"
	}
	weight, err := decimal.NewFromString(strings.TrimSpace(d.UnitWeight))
	if err != nil || !weight.IsPositive() {
		fields[FieldUnitWeight] = "must be a positive number"
	}
	category, err := strconv.ParseInt(strings.TrimSpace(d.CategoryID), 10, 64)
	if err != nil {
		fields[FieldCategoryID] = "must be a whole number"
	}

	if len(fields) > 0 {
		return model.Product{}, fields
	}
	return model.Product{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		DescriptionHTML: d.DescriptionHTML,
		UnitPrice:       price,
		UnitWeight:      weight,
		CategoryID:      category,
		ImageURL:        d.ImageURL,
	}, nil
}

// ProductEditor lists products and edits one at a time.
type ProductEditor struct {
	mu     sync.Mutex
	api    EditorAPI
	logger zerolog.Logger

	products    []model.Product
	categories  []model.Category
	draft       *Draft
	loading     bool
	loadErr     string
	saving      bool
	submitErr   string
	fieldErrors map[string]string
	seoLoading  bool
	seoErr      string
}

// NewProductEditor creates a product editor.
func NewProductEditor(api EditorAPI, logger zerolog.Logger) *ProductEditor {
	return &ProductEditor{
		api:    api,
		logger: logger.With().Str("component", "product-editor").Logger(),
	}
}

// Load fetches products and categories concurrently.
func (e *ProductEditor) Load(ctx context.Context) error {
	e.mu.Lock()
	e.loading = true
	e.loadErr = ""
	e.mu.Unlock()

	var (
		products   []model.Product
		categories []model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = e.api.Products(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = e.api.Categories(gctx)
		return err
	})
	err := g.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to load products")
		e.loadErr = LoadErrorMessage
		return fmt.Errorf("failed to load products: %w", err)
	}
	e.products = products
	e.categories = categories
	return nil
}

// Edit starts editing the product with id.
func (e *ProductEditor) Edit(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.products {
		if p.ID == id {
			d := draftFrom(p)
			e.draft = &d
			e.submitErr = ""
			e.seoErr = ""
			e.fieldErrors = nil
			return nil
		}
	}
	return fmt.Errorf("product %d not found", id)
}

// Cancel drops the draft.
func (e *ProductEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
	e.fieldErrors = nil
	e.submitErr = ""
	e.seoErr = ""
}

// SetField changes one draft field.
func (e *ProductEditor) SetField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return model.ErrNoDraft
	}
	switch name {
	case FieldName:
		e.draft.Name = value
	case FieldDescription:
		e.draft.Description = value
	case FieldUnitPrice:
		e.draft.UnitPrice = value
	case FieldUnitWeight:
		e.draft.UnitWeight = value
	case FieldCategoryID:
		e.draft.CategoryID = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Submit sends the draft. On success the listed copy is replaced by the
// server's response, or by the draft when the server sent no body, and
// the draft is closed.
func (e *ProductEditor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.draft == nil {
		e.mu.Unlock()
		return model.ErrNoDraft
	}
	product, fields := e.draft.Product()
	if fields != nil {
		e.fieldErrors = fields
		e.mu.Unlock()
		return model.NewValidationError(fields)
	}
	e.fieldErrors = nil
	e.submitErr = ""
	e.saving = true
	e.mu.Unlock()

	updated, err := e.api.UpdateProduct(ctx, product)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false

	if err != nil {
		e.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update product")
		e.submitErr = submitMessage(err)
		return fmt.Errorf("failed to update product: %w", err)
	}

	// An empty success body leaves the submitted values as the listed copy.
	replacement := product
	if updated != nil && updated.ID != 0 {
		replacement = *updated
	}
	for i := range e.products {
		if e.products[i].ID == product.ID {
			e.products[i] = replacement
		}
	}
	e.draft = nil
	e.logger.Info().Int64("product_id", product.ID).Msg("product updated")
	return nil
}

// submitMessage prefers the server's explanation when it answered at all.
func submitMessage(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Kind != model.KindNetwork {
		return apiErr.UserMessage(UnknownServerMessage)
	}
	return UpdateFailedMessage
}

// GenerateDescription replaces the draft description with a generated one.
func (e *ProductEditor) GenerateDescription(ctx context.Context) error {
	e.mu.Lock()
	if e.draft == nil {
		e.mu.Unlock()
		return model.ErrNoDraft
	}
	id := e.draft.ID
	e.seoLoading = true
	e.seoErr = ""
	e.mu.Unlock()

	desc, err := e.api.SEODescription(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.seoLoading = false

	if err != nil {
		e.logger.Error().Err(err).Int64("product_id", id).Msg("failed to generate SEO description")
		e.seoErr = SEOFailedMessage
		return fmt.Errorf("failed to generate description: %w", err)
	}
	if e.draft != nil && e.draft.ID == id {
		e.draft.Description = desc
	}
	return nil
}

// Products returns the listed products.
func (e *ProductEditor) Products() []model.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Product, len(e.products))
	copy(out, e.products)
	return out
}

// Categories returns the loaded categories.
func (e *ProductEditor) Categories() []model.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Category, len(e.categories))
	copy(out, e.categories)
	return out
}

// Draft returns the product being edited.
func (e *ProductEditor) Draft() (Draft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return Draft{}, false
	}
	return *e.draft, true
}

// FieldErrors returns per-field messages from the last Submit.
func (e *ProductEditor) FieldErrors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.fieldErrors))
	for k, v := range e.fieldErrors {
		out[k] = v
	}
	return out
}

// Loading reports whether Load is in flight.
func (e *ProductEditor) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// LoadError returns the load error message.
func (e *ProductEditor) LoadError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Saving reports whether Submit is in flight.
func (e *ProductEditor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// SubmitError returns the last submission error.
func (e *ProductEditor) SubmitError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitErr
}

// SEOLoading reports whether a description is being generated.
func (e *ProductEditor) SEOLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seoLoading
}

// SEOError returns the last description generation error.
func (e *ProductEditor) SEOError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seoErr
}

// Render writes the product list and the open draft, if any.
func (e *ProductEditor) Render(w io.Writer) error {
	if msg := e.LoadError(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tWEIGHT\tCATEGORY")
	for _, p := range e.Products() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, model.PriceText(p.UnitPrice), p.UnitWeight.String(), p.CategoryID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	d, ok := e.Draft()
	if !ok {
		return nil
	}
	fmt.Fprintf(w, "\nEditing #%d\n", d.ID)
	fmt.Fprintf(w, "  name:        %s\n", d.Name)
	fmt.Fprintf(w, "  description: %s\n", d.Description)
	fmt.Fprintf(w, "  unitPrice:   %s\n", d.UnitPrice)
	fmt.Fprintf(w, "  unitWeight:  %s\n", d.UnitWeight)
	fmt.Fprintf(w, "  categoryId:  %s\n", d.CategoryID)
	for _, msg := range []string{e.SubmitError(), e.SEOError()} {
		if msg != "" {
			fmt.Fprintln(w, msg)
		}
	}
	return nil
}
