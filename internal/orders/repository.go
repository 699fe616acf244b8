package orders

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()
	order.Status = domain.OrderStatusUnpaid

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, shipping_option_id, tax_option_id,
			subtotal, shipping_cost, tax_amount, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, order.ID, order.CustomerID, order.ShippingOptionID, order.TaxOptionID,
		order.Subtotal, order.ShippingCost, order.TaxAmount, order.Total,
		order.Status, order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, attributes, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), order.ID, item.ProductID, item.Attributes, item.Quantity, item.UnitPrice)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.get(ctx, `
		SELECT id, customer_id, shipping_option_id, tax_option_id,
			subtotal, shipping_cost, tax_amount, total, status, charge_id, created_at, paid_at
		FROM orders
		WHERE id = $1
	`, id)
}

func (r *Repository) GetForCustomer(ctx context.Context, id, customerID string) (*domain.Order, error) {
	return r.get(ctx, `
		SELECT id, customer_id, shipping_option_id, tax_option_id,
			subtotal, shipping_cost, tax_amount, total, status, charge_id, created_at, paid_at
		FROM orders
		WHERE id = $1 AND customer_id = $2
	`, id, customerID)
}

func (r *Repository) get(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	order := &domain.Order{}
	var chargeID sql.NullString
	var paidAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&order.ID, &order.CustomerID, &order.ShippingOptionID, &order.TaxOptionID,
		&order.Subtotal, &order.ShippingCost, &order.TaxAmount, &order.Total,
		&order.Status, &chargeID, &order.CreatedAt, &paidAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	order.ChargeID = chargeID.String
	if paidAt.Valid {
		t := paidAt.Time
		order.PaidAt = &t
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, attributes, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
	`, order.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Attributes, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, shipping_option_id, tax_option_id,
			subtotal, shipping_cost, tax_amount, total, status, charge_id, created_at, paid_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		var chargeID sql.NullString
		var paidAt sql.NullTime
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.ShippingOptionID, &order.TaxOptionID,
			&order.Subtotal, &order.ShippingCost, &order.TaxAmount, &order.Total,
			&order.Status, &chargeID, &order.CreatedAt, &paidAt); err != nil {
			return nil, err
		}
		order.ChargeID = chargeID.String
		if paidAt.Valid {
			t := paidAt.Time
			order.PaidAt = &t
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, attributes, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Attributes, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *orderMap[id])
	}

	return result, nil
}

// MarkPaid is the storage half of the payment idempotency guard. The WHERE
// clause only matches unpaid orders, so of two racing confirmations exactly
// one observes an affected row.
func (r *Repository) MarkPaid(ctx context.Context, id, chargeID string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, charge_id = $2, paid_at = NOW()
		WHERE id = $3 AND status = $4
	`, domain.OrderStatusPaid, chargeID, id, domain.OrderStatusUnpaid)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrAlreadyPaid
	}

	return nil
}
