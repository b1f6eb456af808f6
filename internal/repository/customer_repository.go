package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// CustomerRepository reads and seeds customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	List(ctx context.Context) ([]domain.Customer, error)
}

type customerRepository struct {
	db DBTX
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(db DBTX) CustomerRepository {
	return &customerRepository{db: db}
}

// Create inserts customer, leaving an existing row with the same id untouched.
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (id, name, email, image_url)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, customer.ID, customer.Name, customer.Email, customer.ImageURL)
	return err
}

// List returns every customer ordered by name.
func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	const query = `SELECT id, name, email, image_url FROM customers ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func scanCustomers(rows pgx.Rows) ([]domain.Customer, error) {
	result := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
