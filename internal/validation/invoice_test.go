package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/validation"
)

func TestValidateInvoiceForm_Valid(t *testing.T) {
	form, errs := validation.ValidateInvoiceForm(validation.RawInvoiceForm{
		CustomerID: " c-1 ",
		Amount:     "125.50",
		Status:     "pending",
	})

	assert.True(t, errs.Empty())
	assert.Equal(t, "c-1", form.CustomerID)
	assert.Equal(t, 125.5, form.Amount)
	assert.Equal(t, domain.InvoiceStatusPending, form.Status)
}

func TestValidateInvoiceForm_AmountCoercion(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"non numeric", "abc"},
		{"zero", "0"},
		{"negative", "-12.5"},
		{"nan", "NaN"},
		{"infinity", "Inf"},
		{"below one cent", "0.004"},
		{"tiny negative", "-0.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := validation.ValidateInvoiceForm(validation.RawInvoiceForm{
				CustomerID: "c-1",
				Amount:     tt.amount,
				Status:     "paid",
			})
			assert.Equal(t, []string{"Please enter an amount greater than $0."}, errs[validation.FieldAmount])
			assert.NotContains(t, errs, validation.FieldCustomerID)
			assert.NotContains(t, errs, validation.FieldStatus)
		})
	}
}

func TestValidateInvoiceForm_AmountTooLarge(t *testing.T) {
	_, errs := validation.ValidateInvoiceForm(validation.RawInvoiceForm{
		CustomerID: "c-1",
		Amount:     "1e12",
		Status:     "paid",
	})
	assert.Equal(t, []string{"Please enter an amount that fits in an invoice."}, errs[validation.FieldAmount])

	_, errs = validation.ValidateInvoiceForm(validation.RawInvoiceForm{
		CustomerID: "c-1",
		Amount:     "1e30",
		Status:     "paid",
	})
	assert.Equal(t, []string{"Please enter an amount that fits in an invoice."}, errs[validation.FieldAmount])
}

func TestValidateInvoiceForm_Status(t *testing.T) {
	for _, status := range []string{"", "PAID", "overdue", "pending "} {
		_, errs := validation.ValidateInvoiceForm(validation.RawInvoiceForm{
			CustomerID: "c-1",
			Amount:     "10",
			Status:     status,
		})
		assert.Equal(t, []string{"Please select an invoice status."}, errs[validation.FieldStatus], "status %q", status)
	}
}

func TestValidateInvoiceForm_CollectsAllFields(t *testing.T) {
	_, errs := validation.ValidateInvoiceForm(validation.RawInvoiceForm{})

	assert.Len(t, errs, 3)
	assert.Contains(t, errs, validation.FieldCustomerID)
	assert.Contains(t, errs, validation.FieldAmount)
	assert.Contains(t, errs, validation.FieldStatus)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(12550), validation.ToMinorUnits(125.50))
	assert.Equal(t, int64(1999), validation.ToMinorUnits(19.99))
	assert.Equal(t, int64(1), validation.ToMinorUnits(0.005))
	assert.Equal(t, int64(100000000000), validation.ToMinorUnits(validation.MaxAmount))
}

func TestValidateInvoiceForm_SmallestAcceptedAmount(t *testing.T) {
	form, errs := validation.ValidateInvoiceForm(validation.RawInvoiceForm{
		CustomerID: "c-1",
		Amount:     "0.005",
		Status:     "paid",
	})
	assert.True(t, errs.Empty())
	assert.Equal(t, int64(1), validation.ToMinorUnits(form.Amount))
}
