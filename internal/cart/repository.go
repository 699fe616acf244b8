package cart

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AddItem(ctx context.Context, cartID, productID, attributes string, quantity int, unitPrice int64) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, attributes, quantity, unit_price, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (cart_id, product_id, attributes)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, attributes, quantity, unit_price, added_at
	`, uuid.New().String(), cartID, productID, attributes, quantity, unitPrice, time.Now().UTC()).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Attributes, &item.Quantity, &item.UnitPrice, &item.AddedAt)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *Repository) ListItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cart_id, product_id, attributes, quantity, unit_price, added_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at, id
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Attributes, &item.Quantity, &item.UnitPrice, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) GetItem(ctx context.Context, itemID string) (*domain.CartItem, error) {
	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cart_id, product_id, attributes, quantity, unit_price, added_at
		FROM cart_items
		WHERE id = $1
	`, itemID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Attributes, &item.Quantity, &item.UnitPrice, &item.AddedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *Repository) UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE id = $2
		RETURNING id, cart_id, product_id, attributes, quantity, unit_price, added_at
	`, quantity, itemID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Attributes, &item.Quantity, &item.UnitPrice, &item.AddedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}

func (r *Repository) RemoveItem(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	return err
}

func (r *Repository) Empty(ctx context.Context, cartID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}
