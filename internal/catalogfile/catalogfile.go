// Package catalogfile loads and validates the product file used to seed
// an empty catalog.
package catalogfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// MaxFileSize caps how much of a catalog file is read.
const MaxFileSize = 32 << 20

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog file")

// Loader reads the raw content of a catalog file.
type Loader interface {
	// Load returns the decompressed file content at location.
	Load(ctx context.Context, location string) ([]byte, error)
}

// entry mirrors one element of the file before type checks.
type entry struct {
	ID              any `json:"id"`
	Name            any `json:"name"`
	Description     any `json:"description"`
	DescriptionHTML any `json:"descriptionHTML"`
	UnitPrice       any `json:"unitPrice"`
	UnitWeight      any `json:"unitWeight"`
	CategoryID      any `json:"categoryId"`
	ImageURL        any `json:"imageUrl"`
}

// Parse decodes a JSON array of products and checks every element. All
// element violations are reported together.
func Parse(data []byte) ([]model.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entries []entry
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of products: %v", ErrInvalidCatalog, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of products", ErrInvalidCatalog)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected content after the product array", ErrInvalidCatalog)
	}

	products := make([]model.Product, 0, len(entries))
	var errs error
	for i, e := range entries {
		p, err := e.product()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %d: %w", i, err))
			continue
		}
		products = append(products, p)
	}
	if errs != nil {
		return nil, &InvalidError{Err: errs}
	}
	return products, nil
}

// InvalidError collects every element violation found by Parse.
type InvalidError struct {
	Err error
}

func (e *InvalidError) Error() string {
	return ErrInvalidCatalog.Error() + ": " + e.Err.Error()
}

func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalidCatalog
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// Violations flattens a Parse error into one message per problem.
func Violations(err error) []string {
	if err == nil {
		return nil
	}
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range multierr.Errors(invalid.Err) {
		out = append(out, e.Error())
	}
	return out
}

func (e entry) product() (model.Product, error) {
	var (
		p    model.Product
		errs error
		err  error
	)

	if p.Name, err = nonBlank(e.Name); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("name %w", err))
	}
	if p.Description, err = nonBlank(e.Description); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("description %w", err))
	}
	if p.UnitPrice, err = positive(e.UnitPrice); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("unitPrice %w", err))
	}
	if p.UnitWeight, err = positive(e.UnitWeight); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("unitWeight %w", err))
	}
	if p.CategoryID, err = integer(e.CategoryID); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("categoryId %w", err))
	}
	if errs != nil {
		return model.Product{}, errs
	}

	if id, err := integer(e.ID); err == nil {
		p.ID = id
	}
	if s, ok := e.DescriptionHTML.(string); ok {
		p.DescriptionHTML = s
	}
	if s, ok := e.ImageURL.(string); ok {
		p.ImageURL = s
	}
	return p, nil
}

func nonBlank(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return "", errors.New("must not be empty")
	}
	return s, nil
}

func number(v any) (decimal.Decimal, error) {
	n, ok := v.(json.Number)
	if !ok {
		return decimal.Decimal{}, errors.New("must be a number")
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("must be a number: %w", err)
	}
	return d, nil
}

func positive(v any) (decimal.Decimal, error) {
	d, err := number(v)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, errors.New("must be greater than 0")
	}
	return d, nil
}

var (
	maxInt = decimal.NewFromInt(math.MaxInt64)
	minInt = decimal.NewFromInt(math.MinInt64)
)

func integer(v any) (int64, error) {
	d, err := number(v)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, errors.New("must be a whole number")
	}
	if d.GreaterThan(maxInt) || d.LessThan(minInt) {
		return 0, errors.New("must be a whole number in range")
	}
	return d.IntPart(), nil
}
