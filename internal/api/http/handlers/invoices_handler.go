package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/invoice-service/internal/api/dto"
	"github.com/spec-kit/invoice-service/internal/cache"
	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/service"
	"github.com/spec-kit/invoice-service/internal/validation"
	apperrors "github.com/spec-kit/invoice-service/pkg/util/errorutil"
)

const listPageSize = 6

// InvoiceManager is the invoice pipeline plus its read collaborators.
type InvoiceManager interface {
	Create(ctx context.Context, raw validation.RawInvoiceForm) (service.Outcome, error)
	Update(ctx context.Context, id string, raw validation.RawInvoiceForm) (service.Outcome, error)
	Delete(ctx context.Context, id string) (service.Outcome, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListInvoices(ctx context.Context, query string, page, pageSize int) (*service.InvoicePage, error)
}

// ViewStore caches rendered listings.
type ViewStore interface {
	Lookup(ctx context.Context, path, variant string) (*cache.Slot, error)
	Fill(ctx context.Context, slot *cache.Slot, body []byte) error
}

// InvoicesHandler exposes invoice mutations and the dashboard listing.
type InvoicesHandler struct {
	invoices InvoiceManager
	views    ViewStore
	logger   *zap.Logger
}

// NewInvoicesHandler constructs handler. views may be nil to disable caching.
func NewInvoicesHandler(invoices InvoiceManager, views ViewStore, logger *zap.Logger) *InvoicesHandler {
	return &InvoicesHandler{invoices: invoices, views: views, logger: logger}
}

// Create handles POST /dashboard/invoices.
func (h *InvoicesHandler) Create(c *fiber.Ctx) error {
	var req dto.InvoiceFormRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	out, err := h.invoices.Create(c.UserContext(), req.Raw())
	return h.respond(c, out, err)
}

// Update handles POST /dashboard/invoices/:id/edit.
func (h *InvoicesHandler) Update(c *fiber.Ctx) error {
	var req dto.InvoiceFormRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	out, err := h.invoices.Update(c.UserContext(), c.Params("id"), req.Raw())
	return h.respond(c, out, err)
}

// Delete handles POST /dashboard/invoices/:id/delete.
func (h *InvoicesHandler) Delete(c *fiber.Ctx) error {
	out, err := h.invoices.Delete(c.UserContext(), c.Params("id"))
	return h.respond(c, out, err)
}

// CreateForm handles GET /dashboard/invoices/create.
func (h *InvoicesHandler) CreateForm(c *fiber.Ctx) error {
	customers, err := h.invoices.ListCustomers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"customers": dto.NewCustomerResponses(customers)})
}

// Edit handles GET /dashboard/invoices/:id/edit.
func (h *InvoicesHandler) Edit(c *fiber.Ctx) error {
	id := c.Params("id")
	invoice, err := h.invoices.GetInvoice(c.UserContext(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("invoice", map[string]any{"id": id})
	}
	if err != nil {
		return err
	}
	customers, err := h.invoices.ListCustomers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.EditInvoiceResponse{
		Invoice:   dto.NewInvoiceResponse(*invoice),
		Customers: dto.NewCustomerResponses(customers),
	})
}

// List handles GET /dashboard/invoices. Pages are served from the view cache until
// a mutation invalidates the listing.
func (h *InvoicesHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	query := c.Query("query")
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	var slot *cache.Slot
	if h.views != nil {
		variant := url.Values{"page": {strconv.Itoa(page)}, "query": {query}}.Encode()
		s, err := h.views.Lookup(ctx, service.InvoicesPath, variant)
		if err != nil {
			h.logger.Warn("view cache lookup failed", zap.String("variant", variant), zap.Error(err))
		} else if s.Hit {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(s.Body)
		} else {
			slot = s
		}
	}

	result, err := h.invoices.ListInvoices(ctx, query, page, listPageSize)
	if err != nil {
		return err
	}
	body, err := c.App().Config().JSONEncoder(dto.NewInvoiceListResponse(result.Invoices, result.Page, result.TotalPages))
	if err != nil {
		return err
	}
	if slot != nil {
		if err := h.views.Fill(ctx, slot, body); err != nil {
			h.logger.Warn("view cache fill failed", zap.Error(err))
		}
	}
	c.Set("X-Cache", "MISS")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *InvoicesHandler) respond(c *fiber.Ctx, out service.Outcome, err error) error {
	if err != nil {
		return err
	}
	switch out.Kind {
	case service.OutcomeRedirect:
		return c.Redirect(out.Location, http.StatusSeeOther)
	case service.OutcomeInvalid:
		return c.Status(http.StatusUnprocessableEntity).JSON(dto.FormErrorResponse{Errors: out.Errors, Message: out.Message})
	case service.OutcomeFailed:
		return c.Status(http.StatusInternalServerError).JSON(dto.MessageResponse{Message: out.Message})
	default:
		return apperrors.NewInternalError(errors.New("unknown mutation outcome " + out.Kind.String()))
	}
}
