package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"go.uber.org/zap"

	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/repository"
	"github.com/spec-kit/invoice-service/internal/validation"
)

// InvoicesPath is the listing view every mutation invalidates and redirects to.
const InvoicesPath = "/dashboard/invoices"

// OutcomeKind tags the result of a mutation.
type OutcomeKind int

const (
	// OutcomeRedirect: persisted and the listing invalidated; navigate to Location.
	OutcomeRedirect OutcomeKind = iota + 1
	// OutcomeInvalid: the form failed validation; nothing was written.
	OutcomeInvalid
	// OutcomeFailed: the store rejected the statement.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is what a mutation hands back to the transport. Faults are returned as
// errors alongside a zero Outcome and never encoded here.
type Outcome struct {
	Kind     OutcomeKind
	Location string
	Message  string
	Errors   validation.FieldErrors
}

// ViewInvalidator marks cached views stale.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// MutationRecorder counts mutation results.
type MutationRecorder interface {
	RecordMutation(operation, outcome string)
}

// InvoicePage is one page of the invoice listing.
type InvoicePage struct {
	Invoices   []domain.InvoiceRow
	Page       int
	TotalPages int
}

// InvoiceService runs the invoice mutation pipeline and serves the read collaborators.
type InvoiceService struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	views     ViewInvalidator
	metrics   MutationRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// InvoiceDependencies bundles collaborators for the invoice service.
type InvoiceDependencies struct {
	InvoiceRepo  repository.InvoiceRepository
	CustomerRepo repository.CustomerRepository
	Views        ViewInvalidator
	Metrics      MutationRecorder
	Logger       *zap.Logger
	Clock        func() time.Time
}

// NewInvoiceService constructs the service.
func NewInvoiceService(deps InvoiceDependencies) *InvoiceService {
	s := &InvoiceService{
		invoices:  deps.InvoiceRepo,
		customers: deps.CustomerRepo,
		views:     deps.Views,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		now:       deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create validates raw and inserts a new invoice dated today.
func (s *InvoiceService) Create(ctx context.Context, raw validation.RawInvoiceForm) (Outcome, error) {
	const op = "create"
	form, errs := validation.ValidateInvoiceForm(raw)
	if !errs.Empty() {
		return s.invalid(op, errs, "Missing Fields. Failed to Create Invoice."), nil
	}

	now := s.now().UTC()
	invoice := &domain.Invoice{
		ID:         uuid.NewString(),
		CustomerID: form.CustomerID,
		Amount:     validation.ToMinorUnits(form.Amount),
		Status:     form.Status,
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return s.failed(op, err, "Database Error: Failed to Create Invoice.", zap.String("customer_id", invoice.CustomerID)), nil
	}
	return s.complete(ctx, op, zap.String("invoice_id", invoice.ID))
}

// Update validates raw and rewrites customer, amount and status of invoice id.
func (s *InvoiceService) Update(ctx context.Context, id string, raw validation.RawInvoiceForm) (Outcome, error) {
	const op = "update"
	form, errs := validation.ValidateInvoiceForm(raw)
	if !errs.Empty() {
		return s.invalid(op, errs, "Missing Fields. Failed to Update Invoice."), nil
	}

	const failMsg = "Database Error: Failed to Update Invoice."
	if _, err := uuid.Parse(id); err != nil {
		return s.failed(op, pgx.ErrNoRows, failMsg, zap.String("invoice_id", id)), nil
	}
	invoice := &domain.Invoice{
		ID:         id,
		CustomerID: form.CustomerID,
		Amount:     validation.ToMinorUnits(form.Amount),
		Status:     form.Status,
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return s.failed(op, err, failMsg, zap.String("invoice_id", id)), nil
	}
	return s.complete(ctx, op, zap.String("invoice_id", id))
}

// Delete removes invoice id. A missing row is not an error.
func (s *InvoiceService) Delete(ctx context.Context, id string) (Outcome, error) {
	const op = "delete"
	if _, err := uuid.Parse(id); err != nil {
		return s.complete(ctx, op, zap.String("invoice_id", id), zap.Bool("existed", false))
	}
	existed, err := s.invoices.Delete(ctx, id)
	if err != nil {
		return s.failed(op, err, "Database Error: Failed to Delete Invoice.", zap.String("invoice_id", id)), nil
	}
	return s.complete(ctx, op, zap.String("invoice_id", id), zap.Bool("existed", existed))
}

// GetInvoice returns the invoice for the edit form, or pgx.ErrNoRows.
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pgx.ErrNoRows
	}
	return s.invoices.GetByID(ctx, id)
}

// ListCustomers returns every customer for the invoice form.
func (s *InvoiceService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

// ListInvoices returns page (1-based) of invoices matching query.
func (s *InvoiceService) ListInvoices(ctx context.Context, query string, page, pageSize int) (*InvoicePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 6
	}
	rows, err := s.invoices.List(ctx, repository.InvoiceFilter{
		Query:  query,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	total, err := s.invoices.Count(ctx, query)
	if err != nil {
		return nil, err
	}
	return &InvoicePage{
		Invoices:   rows,
		Page:       page,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// complete runs the post-mutation effects in order: invalidate the listing, then
// redirect to it. An invalidation failure is a fault; redirecting would show stale data.
func (s *InvoiceService) complete(ctx context.Context, op string, fields ...zap.Field) (Outcome, error) {
	if err := s.views.Invalidate(ctx, InvoicesPath); err != nil {
		s.record(op, "fault")
		return Outcome{}, oops.Code("VIEW_INVALIDATE_FAILED").
			With("path", InvoicesPath).
			With("operation", op).
			Wrap(err)
	}
	s.record(op, OutcomeRedirect.String())
	s.logger.Info("invoice mutation completed", append(fields, zap.String("operation", op))...)
	return Outcome{Kind: OutcomeRedirect, Location: InvoicesPath}, nil
}

func (s *InvoiceService) invalid(op string, errs validation.FieldErrors, msg string) Outcome {
	s.record(op, OutcomeInvalid.String())
	return Outcome{Kind: OutcomeInvalid, Errors: errs, Message: msg}
}

func (s *InvoiceService) failed(op string, err error, msg string, fields ...zap.Field) Outcome {
	s.record(op, OutcomeFailed.String())
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	fields = append(fields, storeErrorFields(err)...)
	s.logger.Error("invoice mutation failed", fields...)
	return Outcome{Kind: OutcomeFailed, Message: msg}
}

func (s *InvoiceService) record(op, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordMutation(op, outcome)
	}
}

// storeErrorFields classifies Postgres errors for the log.
func storeErrorFields(err error) []zap.Field {
	if errors.Is(err, pgx.ErrNoRows) {
		return []zap.Field{zap.String("store_class", "no_rows")}
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return []zap.Field{zap.String("store_class", "unavailable")}
	}
	class := "other"
	switch {
	case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
		class = "constraint_violation"
	case pgerrcode.IsDataException(pgErr.Code):
		class = "data_exception"
	case pgerrcode.IsConnectionException(pgErr.Code), pgerrcode.IsInsufficientResources(pgErr.Code):
		class = "unavailable"
	}
	return []zap.Field{
		zap.String("store_class", class),
		zap.String("pg_code", pgErr.Code),
		zap.String("constraint", pgErr.ConstraintName),
	}
}
