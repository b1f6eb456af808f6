package dto

import (
	"time"

	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/validation"
)

// InvoiceFormRequest is the create/edit form. Amount stays textual so coercion
// happens in validation, not in the body parser.
type InvoiceFormRequest struct {
	CustomerID string `json:"customerId" form:"customerId"`
	Amount     string `json:"amount" form:"amount"`
	Status     string `json:"status" form:"status"`
}

// Raw converts the request to validation input.
func (r InvoiceFormRequest) Raw() validation.RawInvoiceForm {
	return validation.RawInvoiceForm{
		CustomerID: r.CustomerID,
		Amount:     r.Amount,
		Status:     r.Status,
	}
}

// FormErrorResponse is returned when the form fails validation.
type FormErrorResponse struct {
	Errors  validation.FieldErrors `json:"errors"`
	Message string                 `json:"message"`
}

// InvoiceResponse is an invoice as the edit form sees it. Amount is in cents.
type InvoiceResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
}

// InvoiceRowResponse is one listing row.
type InvoiceRowResponse struct {
	InvoiceResponse
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// InvoiceListResponse is one page of the listing.
type InvoiceListResponse struct {
	Invoices   []InvoiceRowResponse `json:"invoices"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

// CustomerResponse is a customer option of the invoice form.
type CustomerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EditInvoiceResponse feeds the edit form.
type EditInvoiceResponse struct {
	Invoice   InvoiceResponse    `json:"invoice"`
	Customers []CustomerResponse `json:"customers"`
}

// NewInvoiceResponse maps a domain invoice.
func NewInvoiceResponse(inv domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     inv.Amount,
		Status:     string(inv.Status),
		Date:       inv.Date,
	}
}

// NewCustomerResponses maps customers to form options.
func NewCustomerResponses(customers []domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerResponse{ID: c.ID, Name: c.Name})
	}
	return out
}

// NewInvoiceListResponse maps a listing page.
func NewInvoiceListResponse(rows []domain.InvoiceRow, page, totalPages int) InvoiceListResponse {
	out := InvoiceListResponse{
		Invoices:   make([]InvoiceRowResponse, 0, len(rows)),
		Page:       page,
		TotalPages: totalPages,
	}
	for _, row := range rows {
		out.Invoices = append(out.Invoices, InvoiceRowResponse{
			InvoiceResponse: NewInvoiceResponse(row.Invoice),
			Name:            row.CustomerName,
			Email:           row.CustomerEmail,
			ImageURL:        row.ImageURL,
		})
	}
	return out
}
