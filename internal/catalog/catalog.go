// Package catalog is the product listing with search and category
// filtering.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LoadErrorMessage is shown when the listing could not be fetched.
const LoadErrorMessage = "Failed to load data from the server."

// API is the part of the gateway the catalog reads from.
type API interface {
	Products(ctx context.Context) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// Cart receives products the user buys.
type Cart interface {
	Add(ctx context.Context, p model.Product)
}

// View holds the catalog state.
type View struct {
	mu     sync.Mutex
	api    API
	cart   Cart
	logger zerolog.Logger

	products   []model.Product
	categories []model.Category
	search     string
	categoryID int64
	loading    bool
	err        string
}

// NewView creates a catalog view.
func NewView(api API, cart Cart, logger zerolog.Logger) *View {
	return &View{
		api:    api,
		cart:   cart,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Filter keeps products whose name contains search (case-insensitive) and,
// when categoryID is non-zero, whose category matches.
func Filter(products []model.Product, search string, categoryID int64) []model.Product {
	needle := strings.ToLower(search)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Load fetches products and categories concurrently. Either failure
// discards both results and sets the error message.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.err = ""
	v.mu.Unlock()

	var (
		products   []model.Product
		categories []model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = v.api.Products(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = v.api.Categories(gctx)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		v.logger.Error().Err(err).Msg("failed to load catalog")
		v.err = LoadErrorMessage
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	v.products = products
	v.categories = categories
	return nil
}

// SetSearch updates the search text.
func (v *View) SetSearch(search string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = search
}

// SetCategory selects a category; zero means all.
func (v *View) SetCategory(id int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.categoryID = id
}

// Visible returns the products passing the current filters.
func (v *View) Visible() []model.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Filter(v.products, v.search, v.categoryID)
}

// Categories returns the loaded categories.
func (v *View) Categories() []model.Category {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.Category, len(v.categories))
	copy(out, v.categories)
	return out
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Error returns the current error message.
func (v *View) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Buy adds the product with the given id to the cart.
func (v *View) Buy(ctx context.Context, productID int64) error {
	v.mu.Lock()
	var (
		found model.Product
		ok    bool
	)
	for _, p := range v.products {
		if p.ID == productID {
			found, ok = p, true
			break
		}
	}
	v.mu.Unlock()

	if !ok {
		return fmt.Errorf("product %d not found", productID)
	}
	v.cart.Add(ctx, found)
	v.logger.Debug().Int64("product_id", productID).Msg("added to cart")
	return nil
}

// Render writes the visible products as a table.
func (v *View) Render(w io.Writer) error {
	if msg := v.Error(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tPRICE")
	for _, p := range v.Visible() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Description, model.PriceText(p.UnitPrice))
	}
	return tw.Flush()
}
