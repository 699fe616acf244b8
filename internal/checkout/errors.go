package checkout

import (
	"errors"
	"fmt"

	"github.com/joao-fontenele/shopflow/internal/orders"
)

var (
	// ErrCartEmpty rejects order creation from a cart with no items. Unknown
	// cart ids look identical to empty carts, by the cart store contract.
	ErrCartEmpty = errors.New("cart is empty, nothing to order")
	// ErrOrderNotFound covers both a missing order and an order owned by a
	// different customer; the two are indistinguishable to the caller.
	ErrOrderNotFound = errors.New("order not found")
)

// ErrAlreadyPaid is the hard stop for a duplicate charge. Surfaced both by
// the pre-charge guard and by the store's conditional paid transition.
var ErrAlreadyPaid = orders.ErrAlreadyPaid

// InvalidReferenceError reports a shipping or tax option id that did not
// resolve against the catalog.
type InvalidReferenceError struct {
	Field string
	ID    string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s does not reference a known option: %s", e.Field, e.ID)
}
