package domain

import "time"

// CartItem is one line in an anonymous shopping cart. UnitPrice is a
// snapshot of the product's effective price at the time the item was added.
type CartItem struct {
	ID         string    `json:"id"`
	CartID     string    `json:"cart_id"`
	ProductID  string    `json:"product_id"`
	Attributes string    `json:"attributes"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int64     `json:"unit_price"`
	AddedAt    time.Time `json:"added_at"`
}

func (i CartItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}
