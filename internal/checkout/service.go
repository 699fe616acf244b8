// Package checkout orchestrates the order-and-payment workflow: cart store
// to order store to payment gateway and back, then notification. The one
// property everything here bends around is that a given order is charged at
// most once.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joao-fontenele/shopflow/internal/domain"
	"github.com/joao-fontenele/shopflow/internal/orders"
	"github.com/joao-fontenele/shopflow/internal/payment"
)

type CartStore interface {
	ListItems(ctx context.Context, cartID string) ([]domain.CartItem, error)
}

type Catalog interface {
	GetShippingOption(ctx context.Context, id string) (*domain.ShippingOption, error)
	GetTaxOption(ctx context.Context, id string) (*domain.TaxOption, error)
}

type Gateway interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResponse, error)
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, recipient string, order *domain.Order, description string) error
}

// Publisher hands the order-paid event to a durable queue; the notifier
// worker picks it up from there.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type CustomerDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type ChargeResult struct {
	ChargeID string        `json:"charge_id"`
	Order    *domain.Order `json:"order"`
}

type Service struct {
	carts     CartStore
	orders    orders.Store
	catalog   Catalog
	gateway   Gateway
	notifier  Notifier
	publisher Publisher
	customers CustomerDirectory
	logger    *slog.Logger
	metrics   *chargeMetrics
}

// NewService wires the workflow. publisher may be nil, in which case the
// confirmation notification is attempted synchronously through notifier;
// notifier may also be nil (notification skipped, logged).
func NewService(
	carts CartStore,
	orderStore orders.Store,
	catalog Catalog,
	gateway Gateway,
	notifier Notifier,
	publisher Publisher,
	customers CustomerDirectory,
	logger *slog.Logger,
) (*Service, error) {
	metrics, err := newChargeMetrics()
	if err != nil {
		return nil, err
	}

	return &Service{
		carts:     carts,
		orders:    orderStore,
		catalog:   catalog,
		gateway:   gateway,
		notifier:  notifier,
		publisher: publisher,
		customers: customers,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// CreateOrder converts a cart into an unpaid order. The cart is left intact
// so the customer can review and retry; creating twice from the same cart
// creates two orders.
func (s *Service) CreateOrder(ctx context.Context, customerID, cartID, shippingOptionID, taxOptionID string) (*domain.Order, error) {
	items, err := s.carts.ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	shipping, err := s.catalog.GetShippingOption(ctx, shippingOptionID)
	if err != nil {
		return nil, err
	}
	if shipping == nil {
		return nil, &InvalidReferenceError{Field: "shipping_option_id", ID: shippingOptionID}
	}

	tax, err := s.catalog.GetTaxOption(ctx, taxOptionID)
	if err != nil {
		return nil, err
	}
	if tax == nil {
		return nil, &InvalidReferenceError{Field: "tax_option_id", ID: taxOptionID}
	}

	var subtotal int64
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		subtotal += item.Subtotal()
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:  item.ProductID,
			Attributes: item.Attributes,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}
	taxAmount := tax.Apply(subtotal)

	order := &domain.Order{
		CustomerID:       customerID,
		ShippingOptionID: shippingOptionID,
		TaxOptionID:      taxOptionID,
		Items:            orderItems,
		Subtotal:         subtotal,
		ShippingCost:     shipping.Cost,
		TaxAmount:        taxAmount,
		Total:            subtotal + shipping.Cost + taxAmount,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		"order_id", order.ID, "customer_id", customerID, "cart_id", cartID, "total", order.Total)
	return order, nil
}

// Charge takes payment for an order exactly once.
//
// The pre-charge status read is only a fast path: the race between two
// concurrent calls is closed by the store's conditional paid transition, and
// the gateway's idempotency key covers the window where both calls pass the
// guard before either confirms. A client disconnect after gateway
// confirmation does not stop the paid transition; everything after the
// charge runs on a detached context.
func (s *Service) Charge(ctx context.Context, customerID, orderID, paymentToken, description string) (*ChargeResult, error) {
	order, err := s.orders.GetForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == domain.OrderStatusPaid {
		return nil, ErrAlreadyPaid
	}

	s.metrics.attempted.Add(ctx, 1)

	charge, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		Amount:         order.Total,
		Currency:       "usd",
		Token:          paymentToken,
		Description:    description,
		Metadata:       map[string]string{"order_id": order.ID},
		IdempotencyKey: "order-" + order.ID,
	})
	if err != nil {
		var gwErr *payment.GatewayError
		if errors.As(err, &gwErr) {
			s.metrics.declined.Add(ctx, 1)
			s.logger.Info("charge rejected by gateway",
				"order_id", order.ID, "code", gwErr.Code, "message", gwErr.Message)
		}
		return nil, err
	}

	// The charge is confirmed; from here on the outcome must not depend on
	// the caller still being connected.
	confirmCtx := context.WithoutCancel(ctx)

	if err := s.orders.MarkPaid(confirmCtx, order.ID, charge.ChargeID); err != nil {
		if errors.Is(err, orders.ErrAlreadyPaid) {
			// A concurrent call won the paid transition. The gateway
			// deduplicated the charge by idempotency key, so nothing was
			// double-billed; this caller just loses.
			return nil, ErrAlreadyPaid
		}
		return nil, err
	}

	s.metrics.succeeded.Add(ctx, 1)
	s.logger.Info("order paid", "order_id", order.ID, "charge_id", charge.ChargeID, "amount", charge.Amount)

	paid, err := s.orders.GetByID(confirmCtx, order.ID)
	if err != nil || paid == nil {
		// The transition is durable; fall back to the pre-charge snapshot.
		s.logger.Error("failed to reload paid order", "error", err, "order_id", order.ID)
		paid = order
		paid.Status = domain.OrderStatusPaid
		paid.ChargeID = charge.ChargeID
	}

	s.sendConfirmation(confirmCtx, paid, description)

	return &ChargeResult{ChargeID: charge.ChargeID, Order: paid}, nil
}

// sendConfirmation is best effort: failures are logged and never propagate.
func (s *Service) sendConfirmation(ctx context.Context, order *domain.Order, description string) {
	email := ""
	if s.customers != nil {
		customer, err := s.customers.GetByID(ctx, order.CustomerID)
		if err != nil || customer == nil {
			s.logger.Error("failed to resolve customer for notification", "error", err, "customer_id", order.CustomerID)
			return
		}
		email = customer.Email
	}

	if s.publisher != nil {
		event := domain.OrderPaidEvent{
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			CustomerEmail: email,
			ChargeID:      order.ChargeID,
			Total:         order.Total,
			Description:   description,
			Timestamp:     time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, order.ID, event); err != nil {
			s.logger.Error("failed to publish order paid event", "error", err, "order_id", order.ID)
		}
		return
	}

	if s.notifier == nil {
		s.logger.Warn("no notifier configured, skipping confirmation", "order_id", order.ID)
		return
	}
	if err := s.notifier.SendOrderConfirmation(ctx, email, order, description); err != nil {
		s.logger.Error("failed to send order confirmation", "error", err, "order_id", order.ID)
	}
}
