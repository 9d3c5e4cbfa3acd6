package dto

import (
	"encoding/json"
	"time"

	"github.com/xeonx/timeago"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
)

// CreateTicketRequest payload. When only employee_id is given the employee's
// identity is filled in from the directory.
type CreateTicketRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	Urgency       domain.TicketUrgency  `json:"urgency"`
	EmployeeID    string                `json:"employee_id"`
	EmployeeName  string                `json:"employee_name"`
	EmployeeEmail string                `json:"employee_email"`
	Department    string                `json:"department"`
	Location      string                `json:"location"`
	Phone         string                `json:"phone"`
	Attachments   []string              `json:"attachments"`
}

// UpdateTicketRequest payload. assigned_to may be a name or an explicit null,
// which unassigns the ticket.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus `json:"status"`
	AssignedTo json.RawMessage      `json:"assigned_to"`
	Resolution *string              `json:"resolution"`
}

// Assignment decodes assigned_to. set is false when the field was absent.
func (r UpdateTicketRequest) Assignment() (assignee *string, unassign, set bool, err error) {
	if len(r.AssignedTo) == 0 {
		return nil, false, false, nil
	}
	if string(r.AssignedTo) == "null" {
		return nil, true, true, nil
	}
	var name string
	if err := json.Unmarshal(r.AssignedTo, &name); err != nil {
		return nil, false, true, err
	}
	return &name, false, true, nil
}

// CommentRequest payload.
type CommentRequest struct {
	Author  string `json:"author"`
	Comment string `json:"comment"`
}

// CloseTicketRequest payload.
type CloseTicketRequest struct {
	Resolution string `json:"resolution"`
}

// ReopenTicketRequest payload.
type ReopenTicketRequest struct {
	Reason string `json:"reason"`
}

// TicketResponse is a stored ticket plus human readable ages.
type TicketResponse struct {
	domain.Ticket
	Age          string `json:"age"`
	LastActivity string `json:"last_activity"`
}

// NewTicketResponse renders t relative to now.
func NewTicketResponse(t domain.Ticket, now time.Time) TicketResponse {
	t.Normalize()
	return TicketResponse{
		Ticket:       t,
		Age:          timeago.English.FormatReference(t.CreatedDate.Time, now),
		LastActivity: timeago.English.FormatReference(t.UpdatedDate.Time, now),
	}
}

// NewTicketResponses renders a list.
func NewTicketResponses(tickets []domain.Ticket, now time.Time) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t, now))
	}
	return out
}
