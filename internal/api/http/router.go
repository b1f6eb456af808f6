package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/invoice-service/internal/api/http/handlers"
	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Invoices *handlers.InvoicesHandler
	Guard    *auth.Guard
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes. The guard runs ahead of every route and decides
// from the path alone whether it applies.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/healthz/live", cfg.Health.Live)
	app.Get("/healthz/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Use(cfg.Guard.Handle)

	app.Get(auth.LoginPath, cfg.Auth.LoginPage)
	app.Post(auth.LoginPath, cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)

	dashboard := app.Group(auth.DashboardPath)
	dashboard.Get("/", cfg.Auth.Dashboard)

	invoices := dashboard.Group("/invoices")
	invoices.Get("/", cfg.Invoices.List)
	invoices.Post("/", cfg.Invoices.Create)
	invoices.Get("/create", cfg.Invoices.CreateForm)
	invoices.Get("/:id/edit", cfg.Invoices.Edit)
	invoices.Post("/:id/edit", cfg.Invoices.Update)
	invoices.Post("/:id/delete", cfg.Invoices.Delete)
}

// NewApp builds the fiber app with middlewares and routes registered.
func NewApp(cfg RouteConfig, mw MiddlewareConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               mw.AppName,
		CaseSensitive:         true,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, mw.Logger, cfg.Metrics, mw.Timeout)
	RegisterRoutes(app, cfg)
	return app
}
