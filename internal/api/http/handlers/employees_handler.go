package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/api/dto"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/directory"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
)

// EmployeesHandler exposes the employee directory.
type EmployeesHandler struct {
	directory *directory.Static
	tickets   *service.TicketService
	now       func() time.Time
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(dir *directory.Static, tickets *service.TicketService) *EmployeesHandler {
	return &EmployeesHandler{directory: dir, tickets: tickets, now: time.Now}
}

// List GET /employees, optionally narrowed by ?department=.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	var employees []dto.EmployeeResponse
	if dept := strings.TrimSpace(c.Query("department")); dept != "" {
		employees = h.directory.ByDepartment(dept)
	} else {
		employees = h.directory.All()
	}
	return c.JSON(fiber.Map{"data": employees})
}

// Search GET /employees/search?q=.
func (h *EmployeesHandler) Search(c *fiber.Ctx) error {
	q := clean(c.Query("q"))
	if err := requireFields("q", q); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.directory.Search(q)})
}

// Lookup GET /employees/lookup/:identifier matches an id, an email or part of a name.
func (h *EmployeesHandler) Lookup(c *fiber.Ctx) error {
	employee, err := h.directory.LookupEmployee(c.UserContext(), c.Params("identifier"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employee})
}

// Manager GET /employees/:id/manager.
func (h *EmployeesHandler) Manager(c *fiber.Ctx) error {
	manager, err := h.directory.Manager(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": manager})
}

// Validate GET /employees/:id/validate.
func (h *EmployeesHandler) Validate(c *fiber.Ctx) error {
	id := strings.ToUpper(strings.TrimSpace(c.Params("id")))
	return c.JSON(fiber.Map{"data": dto.EmployeeValidationResponse{
		EmployeeID: id,
		Valid:      h.directory.Validate(id),
	}})
}

// Tickets GET /employees/:id/tickets.
func (h *EmployeesHandler) Tickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListByEmployee(c.UserContext(), strings.ToUpper(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets, h.now())})
}
