package domain

import "time"

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
)

// OrderIntent is a caller's request to reduce a book's stock on behalf
// of a buyer. RequestID is optional; when present it is used for
// duplicate suppression.
type OrderIntent struct {
	BookID    int64
	Quantity  int
	BuyerID   string
	RequestID string
}

type Order struct {
	ID        string
	BookID    int64
	BuyerID   string
	Quantity  int
	Status    OrderStatus
	CreatedAt time.Time
}
