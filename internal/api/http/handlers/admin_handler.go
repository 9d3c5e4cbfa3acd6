package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/api/dto"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/report"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

const (
	dateLayout        = "2006-01-02"
	defaultTrendDays  = 7
	maxTrendDays      = 365
	reportDownloadFmt = "helpdesk_report_%s.xlsx"
)

// AdminHandler exposes analytics, settings and store maintenance.
type AdminHandler struct {
	tickets  *service.TicketService
	settings *service.SettingsService
	store    repository.MaintenanceRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdminHandler constructs handler.
func NewAdminHandler(tickets *service.TicketService, settings *service.SettingsService, store repository.MaintenanceRepository, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{tickets: tickets, settings: settings, store: store, logger: logger, now: time.Now}
}

// Stats GET /admin/stats?timeframe=7d|30d|90d|all.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	window, err := service.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		return err
	}
	stats, err := h.tickets.StatisticsFor(c.UserContext(), window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// TeamPerformance GET /admin/team/performance.
func (h *AdminHandler) TeamPerformance(c *fiber.Ctx) error {
	perf, err := h.tickets.TeamPerformance(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": perf})
}

// Trends GET /admin/trends?days=.
func (h *AdminHandler) Trends(c *fiber.Ctx) error {
	days := defaultTrendDays
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > maxTrendDays {
			return invalidValue("days", v)
		}
		days = parsed
	}
	trends, err := h.tickets.Trends(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trends})
}

// GetSettings GET /admin/settings.
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// UpdateSettings PUT /admin/settings. Fields missing from the body keep their current value.
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	current, err := h.settings.Get(c.UserContext())
	if err != nil {
		return err
	}
	if err := c.BodyParser(&current); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	saved, err := h.settings.Update(c.UserContext(), current)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

// BulkAssign POST /admin/tickets/bulk-assign.
func (h *AdminHandler) BulkAssign(c *fiber.Ctx) error {
	var req dto.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Assignee = clean(req.Assignee)
	if len(req.TicketIDs) == 0 {
		return apperrors.NewValidationError("ticket_ids required", nil)
	}
	if err := requireFields("assignee", req.Assignee); err != nil {
		return err
	}
	updated, err := h.tickets.BulkAssign(c.UserContext(), req.TicketIDs, req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(updated, h.now())})
}

// AutoAssign POST /admin/tickets/auto-assign.
func (h *AdminHandler) AutoAssign(c *fiber.Ctx) error {
	assignments, err := h.tickets.AutoAssign(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignments})
}

// Overdue GET /admin/tickets/overdue.
func (h *AdminHandler) Overdue(c *fiber.Ctx) error {
	now := h.now()
	overdue, err := h.tickets.Overdue(c.UserContext(), now)
	if err != nil {
		return err
	}
	items := make([]dto.OverdueResponse, 0, len(overdue))
	for _, o := range overdue {
		items = append(items, dto.OverdueResponse{
			Ticket:    dto.NewTicketResponse(o.Ticket, now),
			Deadline:  o.Deadline,
			OverdueBy: o.OverdueBy.Round(time.Minute).String(),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Report POST /admin/reports.
func (h *AdminHandler) Report(c *fiber.Ctx) error {
	r, err := h.buildReport(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": r})
}

// ExportReport POST /admin/reports/export returns the report as an xlsx workbook.
func (h *AdminHandler) ExportReport(c *fiber.Ctx) error {
	r, err := h.buildReport(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, r); err != nil {
		return apperrors.NewInternalError(err)
	}
	filename := fmt.Sprintf(reportDownloadFmt, r.GeneratedAt.Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

// Backup POST /admin/backups.
func (h *AdminHandler) Backup(c *fiber.Ctx) error {
	name, err := h.store.Backup(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	h.logger.Info("backup created", zap.String("backup", name))
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"backup": name}})
}

// Restore POST /admin/backups/restore. Only names inside the backup directory are accepted.
func (h *AdminHandler) Restore(c *fiber.Ctx) error {
	var req dto.RestoreRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	name := strings.TrimSpace(req.Backup)
	if err := requireFields("backup", name); err != nil {
		return err
	}
	if filepath.Base(name) != name || name == "." || name == ".." {
		return invalidValue("backup", name)
	}
	if err := h.store.Restore(c.UserContext(), name); err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		return apperrors.NewInternalError(err)
	}
	h.logger.Warn("document restored from backup", zap.String("backup", name))
	return c.JSON(fiber.Map{"data": fiber.Map{"restored": name}})
}

// StoreStats GET /admin/store/stats.
func (h *AdminHandler) StoreStats(c *fiber.Ctx) error {
	stats, err := h.store.Statistics(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": stats})
}

func (h *AdminHandler) buildReport(c *fiber.Ctx) (*service.Report, error) {
	var req dto.ReportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return nil, apperrors.NewValidationError("invalid payload", nil)
		}
	}
	filters := service.ReportRequest{
		Statuses:   req.Statuses,
		Priorities: req.Priorities,
		Department: clean(req.Department),
	}
	for _, s := range req.Statuses {
		if !s.Valid() {
			return nil, invalidValue("statuses", s)
		}
	}
	for _, p := range req.Priorities {
		if !p.Valid() {
			return nil, invalidValue("priorities", p)
		}
	}
	if req.From != "" {
		from, err := time.ParseInLocation(dateLayout, req.From, time.Local)
		if err != nil {
			return nil, invalidValue("from", req.From)
		}
		filters.From = &from
	}
	if req.To != "" {
		to, err := time.ParseInLocation(dateLayout, req.To, time.Local)
		if err != nil {
			return nil, invalidValue("to", req.To)
		}
		// inclusive of the whole day
		to = to.Add(24*time.Hour - time.Second)
		filters.To = &to
	}
	return h.tickets.GenerateReport(c.UserContext(), filters)
}
