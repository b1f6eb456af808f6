package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// InvoiceFilter captures listing search parameters.
type InvoiceFilter struct {
	Query  string
	Limit  int
	Offset int
}

// InvoiceRepository encapsulates invoice persistence. Every mutation is a single statement.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.InvoiceRow, error)
	Count(ctx context.Context, query string) (int, error)
}

type invoiceRepository struct {
	db DBTX
}

// NewInvoiceRepository instantiates repository.
func NewInvoiceRepository(db DBTX) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        INSERT INTO invoices (id, customer_id, amount, status, date)
        VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query,
		invoice.ID,
		invoice.CustomerID,
		invoice.Amount,
		invoice.Status,
		invoice.Date,
	)
	return err
}

// Update rewrites customer, amount and status. id and date never change.
func (r *invoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        UPDATE invoices SET customer_id=$1, amount=$2, status=$3
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query,
		invoice.CustomerID,
		invoice.Amount,
		invoice.Status,
		invoice.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the row and reports whether one existed.
func (r *invoiceRepository) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	const query = `
        SELECT id, customer_id, amount, status, date
        FROM invoices WHERE id=$1`

	var invoice domain.Invoice
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.CustomerID,
		&invoice.Amount,
		&invoice.Status,
		&invoice.Date,
	); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]domain.InvoiceRow, error) {
	where, args := searchClause(filter.Query)

	limit := filter.Limit
	if limit <= 0 {
		limit = 6
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT invoices.id, invoices.customer_id, invoices.amount, invoices.status, invoices.date,
               customers.name, customers.email, customers.image_url
        FROM invoices
        JOIN customers ON invoices.customer_id = customers.id
        %s
        ORDER BY invoices.date DESC, invoices.id
        LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoiceRows(rows)
}

// Count returns how many invoices match the search term.
func (r *invoiceRepository) Count(ctx context.Context, search string) (int, error) {
	where, args := searchClause(search)
	query := fmt.Sprintf(`
        SELECT COUNT(*)
        FROM invoices
        JOIN customers ON invoices.customer_id = customers.id
        %s`, where)

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func searchClause(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	columns := []string{
		"customers.name",
		"customers.email",
		"invoices.amount::text",
		"invoices.date::text",
		"invoices.status",
	}
	clauses := make([]string, len(columns))
	for i, col := range columns {
		clauses[i] = col + " ILIKE $1"
	}
	return "WHERE " + strings.Join(clauses, " OR "), []any{"%" + search + "%"}
}

func scanInvoiceRows(rows pgx.Rows) ([]domain.InvoiceRow, error) {
	result := []domain.InvoiceRow{}
	for rows.Next() {
		var row domain.InvoiceRow
		if err := rows.Scan(
			&row.ID,
			&row.CustomerID,
			&row.Amount,
			&row.Status,
			&row.Date,
			&row.CustomerName,
			&row.CustomerEmail,
			&row.ImageURL,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
