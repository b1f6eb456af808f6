package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/repository"
)

type fakeUserRepo struct {
	users   map[string]*domain.User
	err     error
	lookups int
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

// fakeInvoiceRepo is an in-memory store with optional injected failures.
type fakeInvoiceRepo struct {
	mu     sync.Mutex
	rows   map[string]domain.Invoice
	fail   error
	writes int
}

func newFakeInvoiceRepo(rows ...domain.Invoice) *fakeInvoiceRepo {
	r := &fakeInvoiceRepo{rows: map[string]domain.Invoice{}}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (f *fakeInvoiceRepo) snapshot() map[string]domain.Invoice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Invoice, len(f.rows))
	for k, v := range f.rows {
		out[k] = v
	}
	return out
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.fail != nil {
		return f.fail
	}
	f.rows[invoice.ID] = *invoice
	return nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.fail != nil {
		return f.fail
	}
	existing, ok := f.rows[invoice.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.CustomerID = invoice.CustomerID
	existing.Amount = invoice.Amount
	existing.Status = invoice.Status
	f.rows[invoice.ID] = existing
	return nil
}

func (f *fakeInvoiceRepo) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.fail != nil {
		return false, f.fail
	}
	_, ok := f.rows[id]
	delete(f.rows, id)
	return ok, nil
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeInvoiceRepo) matching(query string) []domain.InvoiceRow {
	var out []domain.InvoiceRow
	for _, row := range f.rows {
		if query == "" || strings.Contains(string(row.Status), query) {
			out = append(out, domain.InvoiceRow{Invoice: row})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeInvoiceRepo) List(_ context.Context, filter repository.InvoiceFilter) ([]domain.InvoiceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.matching(filter.Query)
	if filter.Offset >= len(rows) {
		return []domain.InvoiceRow{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[filter.Offset:end], nil
}

func (f *fakeInvoiceRepo) Count(_ context.Context, query string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matching(query)), nil
}

type fakeCustomerRepo struct {
	customers []domain.Customer
}

func (f *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	f.customers = append(f.customers, *c)
	return nil
}

func (f *fakeCustomerRepo) List(context.Context) ([]domain.Customer, error) {
	return f.customers, nil
}

// recordingViews captures the store state at each invalidation.
type recordingViews struct {
	repo      *fakeInvoiceRepo
	paths     []string
	snapshots []map[string]domain.Invoice
	err       error
}

func (v *recordingViews) Invalidate(_ context.Context, path string) error {
	if v.err != nil {
		return v.err
	}
	v.paths = append(v.paths, path)
	if v.repo != nil {
		v.snapshots = append(v.snapshots, v.repo.snapshot())
	}
	return nil
}

type countingRecorder struct {
	counts map[string]int
}

func (c *countingRecorder) RecordMutation(op, outcome string) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[op+"/"+outcome]++
}
