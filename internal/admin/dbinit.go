package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"storefront/internal/catalogfile"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Bulk initialization messages.
const (
	ExistingLoadFailedMessage = "Failed to load existing products."
	InvalidFileMessage        = "Invalid file content. Please upload a valid file containing a list of products."
	ReadFileFailedMessage     = "Failed to read the file."
	UnexpectedErrorMessage    = "An unexpected error occurred."
)

// MaxExistingForInit is the largest existing catalog still treated as
// empty enough to seed.
const MaxExistingForInit = 1

// DBInit seeds an empty catalog from a product file.
type DBInit struct {
	mu     sync.Mutex
	api    InitAPI
	loader catalogfile.Loader
	logger zerolog.Logger

	existing   []model.Product
	file       []model.Product
	fileLoaded bool
	violations []string
	loading    bool
	err        string
	success    string
}

// NewDBInit creates the bulk initialization view.
func NewDBInit(api InitAPI, loader catalogfile.Loader, logger zerolog.Logger) *DBInit {
	return &DBInit{
		api:    api,
		loader: loader,
		logger: logger.With().Str("component", "db-init").Logger(),
	}
}

// LoadExisting fetches the current product list.
func (d *DBInit) LoadExisting(ctx context.Context) error {
	products, err := d.api.Products(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to fetch products")
		d.err = ExistingLoadFailedMessage
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	d.existing = products
	return nil
}

// LoadFile reads and validates a catalog file. An invalid file is
// discarded entirely.
func (d *DBInit) LoadFile(ctx context.Context, location string) error {
	data, err := d.loader.Load(ctx, location)
	if err != nil {
		d.mu.Lock()
		d.clearFile()
		d.err = ReadFileFailedMessage
		d.mu.Unlock()
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	products, err := catalogfile.Parse(data)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.clearFile()
		d.violations = catalogfile.Violations(err)
		d.err = InvalidFileMessage
		d.logger.Warn().Err(err).Str("file", location).Msg("rejected catalog file")
		return err
	}

	d.file = products
	d.fileLoaded = true
	d.violations = nil
	d.err = ""
	d.logger.Info().Str("file", location).Int("products", len(products)).Msg("catalog file accepted")
	return nil
}

func (d *DBInit) clearFile() {
	d.file = nil
	d.fileLoaded = false
	d.violations = nil
}

// CanInitialize reports whether Initialize may run: a valid file is
// loaded, the catalog is still (nearly) empty and nothing is in flight.
func (d *DBInit) CanInitialize() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canInitialize()
}

func (d *DBInit) canInitialize() bool {
	return d.fileLoaded && len(d.existing) <= MaxExistingForInit && !d.loading
}

// Initialize posts the loaded products to the backend.
func (d *DBInit) Initialize(ctx context.Context) error {
	d.mu.Lock()
	switch {
	case !d.fileLoaded:
		d.err = model.ErrNoCatalogFile.Message
		d.mu.Unlock()
		return model.ErrNoCatalogFile
	case len(d.existing) > MaxExistingForInit:
		d.mu.Unlock()
		return model.ErrAlreadyInit
	case d.loading:
		d.mu.Unlock()
		return errors.New("initialization already in progress")
	}
	products := make([]model.Product, len(d.file))
	copy(products, d.file)
	d.loading = true
	d.err = ""
	d.success = ""
	d.mu.Unlock()

	msg, err := d.api.InitCustom(ctx, products)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false

	if err != nil {
		d.logger.Error().Err(err).Int("products", len(products)).Msg("failed to initialize catalog")
		d.err = initMessage(err)
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}

	d.success = msg
	d.existing = products
	d.logger.Info().Int("products", len(products)).Msg("catalog initialized")
	return nil
}

func initMessage(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ServerMessage != "" {
			return apiErr.ServerMessage
		}
		return apiErr.Error()
	}
	return UnexpectedErrorMessage
}

// Existing returns the current catalog.
func (d *DBInit) Existing() []model.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Product, len(d.existing))
	copy(out, d.existing)
	return out
}

// File returns the validated file content, if any.
func (d *DBInit) File() ([]model.Product, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.fileLoaded {
		return nil, false
	}
	out := make([]model.Product, len(d.file))
	copy(out, d.file)
	return out, true
}

// Violations lists why the last file was rejected.
func (d *DBInit) Violations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.violations...)
}

// Loading reports whether Initialize is in flight.
func (d *DBInit) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Error returns the current error message.
func (d *DBInit) Error() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Success returns the server's confirmation.
func (d *DBInit) Success() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.success
}

// Render writes the view state.
func (d *DBInit) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintf(w, "Existing products: %d\n", len(d.existing))
	if d.fileLoaded {
		fmt.Fprintf(w, "File products: %d\n", len(d.file))
		for _, p := range d.file {
			fmt.Fprintf(w, "  %s (%s)\n", p.Name, model.PriceText(p.UnitPrice))
		}
	}
	fmt.Fprintf(w, "Can initialize: %t\n", d.canInitialize())
	if d.err != "" {
		fmt.Fprintln(w, d.err)
		for _, v := range d.violations {
			fmt.Fprintf(w, "  - %s\n", v)
		}
	}
	if d.success != "" {
		fmt.Fprintln(w, d.success)
	}
	return nil
}
