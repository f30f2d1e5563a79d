package domain

import "time"

// OrderFulfilled is published after a stock decrement has committed.
// It is informational only; failure to deliver it never affects the
// order that produced it.
type OrderFulfilled struct {
	OrderID    string    `json:"order_id"`
	BookID     int64     `json:"book_id"`
	Quantity   int       `json:"quantity"`
	BuyerID    string    `json:"buyer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
