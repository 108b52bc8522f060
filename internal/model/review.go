package model

import "time"

// Review is a customer opinion about a finished order.
type Review struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewRequest is the payload of POST /orders/{orderId}/opinions.
type ReviewRequest struct {
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Text   string `json:"text" validate:"required"`
}
