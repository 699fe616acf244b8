package orders

import (
	"context"
	"errors"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

// ErrAlreadyPaid is returned by MarkPaid when the order is not in the
// unpaid status. The conditional update behind it is what closes the
// concurrent double-charge race: of two racing confirmations exactly one
// observes rows affected and the other gets this error.
var ErrAlreadyPaid = errors.New("order has already been paid")

type Store interface {
	Create(ctx context.Context, order *domain.Order) error
	// GetByID returns (nil, nil) when the order does not exist.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetForCustomer is GetByID additionally scoped to the owning customer;
	// an order owned by someone else reads as absent.
	GetForCustomer(ctx context.Context, id, customerID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	// MarkPaid transitions unpaid -> paid and records the gateway charge id.
	// Fails with ErrAlreadyPaid unless the current status is unpaid.
	MarkPaid(ctx context.Context, id, chargeID string) error
}
