package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/api/dto"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

const defaultRecentLimit = 10

// TicketsHandler exposes the ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	now     func() time.Time
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, now: time.Now}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Title = clean(req.Title)
	req.Description = clean(req.Description)
	req.EmployeeID = strings.ToUpper(clean(req.EmployeeID))
	req.EmployeeName = clean(req.EmployeeName)
	req.EmployeeEmail = clean(req.EmployeeEmail)
	req.Department = clean(req.Department)
	req.Location = clean(req.Location)
	req.Phone = clean(req.Phone)

	if err := requireFields("title", req.Title, "description", req.Description,
		"category", string(req.Category), "employee_id", req.EmployeeID); err != nil {
		return err
	}
	if !req.Category.Valid() {
		return invalidValue("category", req.Category)
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return invalidValue("priority", req.Priority)
	}
	if req.Urgency != "" && !req.Urgency.Valid() {
		return invalidValue("urgency", req.Urgency)
	}

	var (
		ticket *domain.Ticket
		err    error
	)
	if req.EmployeeName == "" {
		ticket, err = h.service.Submit(c.UserContext(), req.EmployeeID, service.TicketSubmission{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Priority:    req.Priority,
			Urgency:     req.Urgency,
			Location:    req.Location,
			Phone:       req.Phone,
			Attachments: cleanAll(req.Attachments),
		})
	} else {
		ticket, err = h.service.Create(c.UserContext(), service.TicketCreateInput{
			Title:         req.Title,
			Description:   req.Description,
			Category:      req.Category,
			Priority:      req.Priority,
			Urgency:       req.Urgency,
			EmployeeID:    req.EmployeeID,
			EmployeeName:  req.EmployeeName,
			EmployeeEmail: req.EmployeeEmail,
			Department:    req.Department,
			Location:      req.Location,
			Phone:         req.Phone,
			Attachments:   cleanAll(req.Attachments),
		})
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.now())})
}

// ListTickets GET /tickets. Filters combine with AND.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var queries []func() ([]domain.Ticket, error)

	if v := c.Query("status"); v != "" {
		status := domain.TicketStatus(v)
		if !status.Valid() {
			return invalidValue("status", v)
		}
		queries = append(queries, func() ([]domain.Ticket, error) { return h.service.ListByStatus(ctx, status) })
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.TicketPriority(v)
		if !priority.Valid() {
			return invalidValue("priority", v)
		}
		queries = append(queries, func() ([]domain.Ticket, error) { return h.service.ListByPriority(ctx, priority) })
	}
	if v := c.Query("category"); v != "" {
		category := domain.TicketCategory(v)
		if !category.Valid() {
			return invalidValue("category", v)
		}
		queries = append(queries, func() ([]domain.Ticket, error) { return h.service.ListByCategory(ctx, category) })
	}
	if v := c.Query("assigned_to"); v != "" {
		if v == "unassigned" {
			queries = append(queries, func() ([]domain.Ticket, error) { return h.service.ListUnassigned(ctx) })
		} else {
			queries = append(queries, func() ([]domain.Ticket, error) { return h.service.ListByAssignee(ctx, v) })
		}
	}
	if v := c.Query("employee_id"); v != "" {
		queries = append(queries, func() ([]domain.Ticket, error) { return h.service.ListByEmployee(ctx, v) })
	}
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		queries = append(queries, func() ([]domain.Ticket, error) { return h.service.Search(ctx, v) })
	}
	if len(queries) == 0 {
		queries = append(queries, func() ([]domain.Ticket, error) { return h.service.List(ctx) })
	}

	tickets, err := intersect(queries)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets, h.now())})
}

// RecentTickets GET /tickets/recent.
func (h *TicketsHandler) RecentTickets(c *fiber.Ctx) error {
	limit := defaultRecentLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return invalidValue("limit", v)
		}
		limit = parsed
	}
	tickets, err := h.service.ListRecent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets, h.now())})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.now())})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	upd := service.TicketUpdate{Status: req.Status}
	if req.Status != nil && !req.Status.Valid() {
		return invalidValue("status", *req.Status)
	}
	assignee, unassign, _, err := req.Assignment()
	if err != nil {
		return invalidValue("assigned_to", string(req.AssignedTo))
	}
	if assignee != nil {
		name := clean(*assignee)
		if name == "" {
			unassign = true
		} else {
			upd.AssignedTo = &name
		}
	}
	upd.Unassign = unassign
	if req.Resolution != nil {
		resolution := clean(*req.Resolution)
		upd.Resolution = &resolution
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("id"), upd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.now())})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Author = clean(req.Author)
	req.Comment = clean(req.Comment)
	if err := requireFields("author", req.Author, "comment", req.Comment); err != nil {
		return err
	}
	ticket, err := h.service.AddComment(c.UserContext(), c.Params("id"), domain.Comment{
		Author:  req.Author,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.now())})
}

// CloseTicket POST /tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	var req dto.CloseTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	ticket, err := h.service.Close(c.UserContext(), c.Params("id"), clean(req.Resolution))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.now())})
}

// ReopenTicket POST /tickets/:id/reopen.
func (h *TicketsHandler) ReopenTicket(c *fiber.Ctx) error {
	var req dto.ReopenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Reason = clean(req.Reason)
	if err := requireFields("reason", req.Reason); err != nil {
		return err
	}
	ticket, err := h.service.Reopen(c.UserContext(), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.now())})
}

// intersect runs each query and keeps tickets present in all results, in the order of the first.
func intersect(queries []func() ([]domain.Ticket, error)) ([]domain.Ticket, error) {
	result, err := queries[0]()
	if err != nil {
		return nil, err
	}
	for _, q := range queries[1:] {
		next, err := q()
		if err != nil {
			return nil, err
		}
		keep := make(map[string]struct{}, len(next))
		for _, t := range next {
			keep[t.ID] = struct{}{}
		}
		filtered := result[:0]
		for _, t := range result {
			if _, ok := keep[t.ID]; ok {
				filtered = append(filtered, t)
			}
		}
		result = filtered
	}
	return result, nil
}
