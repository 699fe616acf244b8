package customers

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, customer *domain.Customer) error {
	customer.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, password_hash, day_phone, eve_phone, mob_phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, customer.ID, customer.Name, customer.Email, customer.PasswordHash,
		customer.DayPhone, customer.EvePhone, customer.MobPhone, customer.CreatedAt)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.get(ctx, `
		SELECT id, name, email, password_hash, day_phone, eve_phone, mob_phone, created_at
		FROM customers
		WHERE id = $1
	`, id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.get(ctx, `
		SELECT id, name, email, password_hash, day_phone, eve_phone, mob_phone, created_at
		FROM customers
		WHERE email = $1
	`, email)
}

func (r *Repository) get(ctx context.Context, query string, args ...any) (*domain.Customer, error) {
	customer := &domain.Customer{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.PasswordHash,
		&customer.DayPhone, &customer.EvePhone, &customer.MobPhone, &customer.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return customer, nil
}
