package domain

import "time"

// OrderPaidEvent is published after a charge is confirmed and the order has
// been durably marked paid. Consumers send the confirmation notification.
type OrderPaidEvent struct {
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	ChargeID      string    `json:"charge_id"`
	Total         int64     `json:"total"`
	Description   string    `json:"description"`
	Timestamp     time.Time `json:"timestamp"`
}
