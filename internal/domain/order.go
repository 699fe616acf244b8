package domain

import "time"

type OrderStatus string

const (
	OrderStatusUnpaid OrderStatus = "unpaid"
	OrderStatusPaid   OrderStatus = "paid"
)

type OrderItem struct {
	ProductID  string `json:"product_id"`
	Attributes string `json:"attributes"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
}

// Order amounts are minor currency units. Total is fixed at creation time;
// Status only ever moves unpaid -> paid, via a confirmed gateway charge.
type Order struct {
	ID               string      `json:"id"`
	CustomerID       string      `json:"customer_id"`
	ShippingOptionID string      `json:"shipping_option_id"`
	TaxOptionID      string      `json:"tax_option_id"`
	Items            []OrderItem `json:"items"`
	Subtotal         int64       `json:"subtotal"`
	ShippingCost     int64       `json:"shipping_cost"`
	TaxAmount        int64       `json:"tax_amount"`
	Total            int64       `json:"total"`
	Status           OrderStatus `json:"status"`
	ChargeID         string      `json:"charge_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	PaidAt           *time.Time  `json:"paid_at,omitempty"`
}
