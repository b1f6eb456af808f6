package domain

import "time"

// InvoiceStatus enumerates the two payment states.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice is a billing record. Amount is stored in cents.
type Invoice struct {
	ID         string
	CustomerID string
	Amount     int64
	Status     InvoiceStatus
	Date       time.Time
}

// InvoiceRow is an invoice joined with its customer for listings.
type InvoiceRow struct {
	Invoice
	CustomerName  string
	CustomerEmail string
	ImageURL      string
}
