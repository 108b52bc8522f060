package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status names used by the backend.
const (
	StatusNew       = "NEW"
	StatusApproved  = "APPROVED"
	StatusCompleted = "COMPLETED"
	StatusCanceled  = "CANCELED"
)

// Status ids the backend seeds by default.
const (
	StatusIDNew      int64 = 1
	StatusIDApproved int64 = 2
)

// Status is an order lifecycle state.
type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	name := strings.ToUpper(s.Name)
	return name == StatusCompleted || name == StatusCanceled
}

// Order represents a submitted customer order.
type Order struct {
	ID           int64       `json:"id"`
	StatusID     int64       `json:"statusId"`
	Status       Status      `json:"status"`
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email"`
	PhoneNumber  string      `json:"phoneNumber"`
	ApprovalDate *time.Time  `json:"approvalDate"`
	Items        []OrderItem `json:"orderItems"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	StatusID     int64              `json:"statusId" validate:"gte=0"`
	CustomerName string             `json:"customerName" validate:"nonblank"`
	Email        string             `json:"email" validate:"contact_email"`
	PhoneNumber  string             `json:"phoneNumber" validate:"phone9"`
	Items        []OrderItemRequest `json:"items" validate:"min=1,dive"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID int64           `json:"productId" validate:"gt=0"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderStatusPatch is the payload of PATCH /orders/{id}.
type OrderStatusPatch struct {
	StatusID     int64      `json:"statusId"`
	ApprovalDate *time.Time `json:"approvalDate"`
}

// NoDateText is shown for an order that was never approved.
const NoDateText = "None"

// ApprovalDateText formats the approval date for display.
func (o Order) ApprovalDateText() string {
	if o.ApprovalDate == nil {
		return NoDateText
	}
	return o.ApprovalDate.Format("January 2, 2006")
}
