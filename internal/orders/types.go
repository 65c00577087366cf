package orders

import (
	"errors"
	"time"
)

// TotalTolerance is the largest accepted gap between the declared total and the
// sum of the items.
const TotalTolerance = 1e-6

// ErrTotalMismatch is returned when the declared total does not match the items.
var ErrTotalMismatch = errors.New("total does not match sum of items")

// Line is the part of an order item that contributes to the total.
type Line struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreatedEvent is published after an order has been stored.
type CreatedEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	Items     []Line    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// EventTypeCreated is the CreatedEvent type tag.
const EventTypeCreated = "order.created"
