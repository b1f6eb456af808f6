// Package validation checks submitted forms before anything reaches the store.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// Form field names as submitted by the dashboard.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// MaxAmount caps a single invoice so the cents value fits the amount column.
const MaxAmount = 1_000_000_000

// FieldErrors maps a form field to every message raised against it.
type FieldErrors map[string][]string

// Add appends a message for field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Empty reports whether no violations were recorded.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// RawInvoiceForm is the untyped form body.
type RawInvoiceForm struct {
	CustomerID string
	Amount     string
	Status     string
}

// InvoiceForm is a form that passed validation. Amount is still in dollars.
type InvoiceForm struct {
	CustomerID string
	Amount     float64
	Status     domain.InvoiceStatus
}

type rule struct {
	field string
	check func(InvoiceForm) bool
	msg   string
}

var invoiceRules = []rule{
	{FieldCustomerID, func(f InvoiceForm) bool { return f.CustomerID != "" }, "Please select a customer."},
	{FieldAmount, func(f InvoiceForm) bool { return atLeastOneCent(f.Amount) }, "Please enter an amount greater than $0."},
	{FieldAmount, func(f InvoiceForm) bool { return f.Amount <= MaxAmount }, "Please enter an amount that fits in an invoice."},
	{FieldStatus, func(f InvoiceForm) bool { return f.Status.Valid() }, "Please select an invoice status."},
}

// ValidateInvoiceForm coerces raw and runs every rule, collecting all violations.
// The returned form is only meaningful when errs is empty.
func ValidateInvoiceForm(raw RawInvoiceForm) (InvoiceForm, FieldErrors) {
	form := InvoiceForm{
		CustomerID: strings.TrimSpace(raw.CustomerID),
		Amount:     coerceNumber(raw.Amount),
		Status:     domain.InvoiceStatus(raw.Status),
	}

	errs := FieldErrors{}
	for _, r := range invoiceRules {
		if !r.check(form) {
			errs.Add(r.field, r.msg)
		}
	}
	return form, errs
}

// coerceNumber turns empty, non-numeric or non-finite input into 0.
func coerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// atLeastOneCent reports whether amount is still positive once stored as whole cents.
// Amounts above MaxAmount are left to the size rule.
func atLeastOneCent(amount float64) bool {
	if amount > MaxAmount {
		return true
	}
	return amount > 0 && ToMinorUnits(amount) >= 1
}

// ToMinorUnits converts a dollar amount to cents, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
