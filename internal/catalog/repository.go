package catalog

import (
	"context"
	"database/sql"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

// Repository is the read side of the catalog: products, shipping options and
// tax options. All queries are explicit SQL with documented contracts;
// missing ids read as (nil, nil).
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, discounted_price
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.DiscountedPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns one page of products plus the total row count for the
// filter, so callers can paginate. search matches name or description,
// case-insensitively; empty search matches everything.
func (r *Repository) ListProducts(ctx context.Context, page, limit int, search string) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	pattern := "%" + search + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM products
		WHERE $1 = '' OR name ILIKE $2 OR description ILIKE $2
	`, search, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price, discounted_price
		FROM products
		WHERE $1 = '' OR name ILIKE $2 OR description ILIKE $2
		ORDER BY name
		LIMIT $3 OFFSET $4
	`, search, pattern, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountedPrice); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *Repository) GetShippingOption(ctx context.Context, id string) (*domain.ShippingOption, error) {
	option := &domain.ShippingOption{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, description, cost
		FROM shipping_options
		WHERE id = $1
	`, id).Scan(&option.ID, &option.Description, &option.Cost)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return option, nil
}

func (r *Repository) ListShippingOptions(ctx context.Context) ([]domain.ShippingOption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, cost
		FROM shipping_options
		ORDER BY cost
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	options := []domain.ShippingOption{}
	for rows.Next() {
		var o domain.ShippingOption
		if err := rows.Scan(&o.ID, &o.Description, &o.Cost); err != nil {
			return nil, err
		}
		options = append(options, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return options, nil
}

func (r *Repository) GetTaxOption(ctx context.Context, id string) (*domain.TaxOption, error) {
	option := &domain.TaxOption{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, rate
		FROM tax_options
		WHERE id = $1
	`, id).Scan(&option.ID, &option.Name, &option.Rate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return option, nil
}

func (r *Repository) ListTaxOptions(ctx context.Context) ([]domain.TaxOption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, rate
		FROM tax_options
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	options := []domain.TaxOption{}
	for rows.Next() {
		var o domain.TaxOption
		if err := rows.Scan(&o.ID, &o.Name, &o.Rate); err != nil {
			return nil, err
		}
		options = append(options, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return options, nil
}
