package model

import "github.com/shopspring/decimal"

// CartItem is a product snapshot plus the quantity held in the cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns unit price multiplied by quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
