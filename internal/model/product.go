// Package model holds the types exchanged with the backend.
//
// Importing model switches decimal.MarshalJSONWithoutQuotes on for the
// whole process: the backend exchanges prices and weights as JSON numbers,
// and every binary in this module talks to it. Any other decimal encoded
// in the same process is written as a number too.
package model

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalogue product as served by the backend.
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"descriptionHTML,omitempty"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	UnitWeight      decimal.Decimal `json:"unitWeight"`
	CategoryID      int64           `json:"categoryId"`
	ImageURL        string          `json:"imageUrl,omitempty"`
}

// Category is read-only reference data for product grouping.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SEODescriptionResponse is returned by GET /products/{id}/seo-description.
type SEODescriptionResponse struct {
	SEODescription string `json:"seoDescription"`
}

// InitCustomRequest is the payload of POST /init/custom.
type InitCustomRequest struct {
	Products []Product `json:"products"`
}

// MessageResponse carries a server confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// PriceText formats a price with two decimals, or N/A when the backend
// sent none.
func PriceText(d decimal.Decimal) string {
	if d.IsZero() {
		return "N/A"
	}
	return d.StringFixed(2)
}
