package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Employees *handlers.EmployeesHandler
	Admin     *handlers.AdminHandler
	Gatherer  prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/recent", cfg.Tickets.RecentTickets)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)
	tickets.Post("/:id/reopen", cfg.Tickets.ReopenTicket)

	employees := app.Group("/employees")
	employees.Get("/", cfg.Employees.List)
	employees.Get("/search", cfg.Employees.Search)
	employees.Get("/lookup/:identifier", cfg.Employees.Lookup)
	employees.Get("/:id/manager", cfg.Employees.Manager)
	employees.Get("/:id/tickets", cfg.Employees.Tickets)
	employees.Get("/:id/validate", cfg.Employees.Validate)

	admin := app.Group("/admin")
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/team/performance", cfg.Admin.TeamPerformance)
	admin.Get("/trends", cfg.Admin.Trends)
	admin.Get("/settings", cfg.Admin.GetSettings)
	admin.Put("/settings", cfg.Admin.UpdateSettings)
	admin.Post("/tickets/bulk-assign", cfg.Admin.BulkAssign)
	admin.Post("/tickets/auto-assign", cfg.Admin.AutoAssign)
	admin.Get("/tickets/overdue", cfg.Admin.Overdue)
	admin.Post("/reports", cfg.Admin.Report)
	admin.Post("/reports/export", cfg.Admin.ExportReport)
	admin.Post("/backups", cfg.Admin.Backup)
	admin.Post("/backups/restore", cfg.Admin.Restore)
	admin.Get("/store/stats", cfg.Admin.StoreStats)
}
