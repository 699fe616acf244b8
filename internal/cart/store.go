package cart

import (
	"context"
	"errors"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

var (
	// ErrInvalidQuantity rejects quantity updates to zero or below. Removal
	// goes through RemoveItem, never through a quantity update.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrItemNotFound    = errors.New("cart item not found")
)

// Store holds cart line items keyed by an opaque, client-held cart id.
// Carts are created implicitly by the first write; listing an unknown cart
// yields an empty slice, not an error.
type Store interface {
	// AddItem appends a line to the cart, snapshotting unitPrice. Adding the
	// same product with the same attributes again increments the quantity.
	AddItem(ctx context.Context, cartID, productID, attributes string, quantity int, unitPrice int64) (*domain.CartItem, error)
	// ListItems returns the cart's lines in insertion order.
	ListItems(ctx context.Context, cartID string) ([]domain.CartItem, error)
	// GetItem returns (nil, nil) when the item does not exist.
	GetItem(ctx context.Context, itemID string) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error)
	// RemoveItem deletes a line; removing an absent item is not an error.
	RemoveItem(ctx context.Context, itemID string) error
	Empty(ctx context.Context, cartID string) error
}
