package events

import (
	"time"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketCommentAdded  EventType = "ticket_comment_added"
	EventTicketEscalated     EventType = "ticket_escalated"
)

// Event represents a domain event emitted by services after a successful save.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title         string                `json:"title"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	EmployeeID    string                `json:"employee_id"`
	EmployeeEmail string                `json:"employee_email"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
	Resolution string              `json:"resolution,omitempty"`
}

// TicketAssignedPayload payload. An empty Assignee means the ticket was unassigned.
type TicketAssignedPayload struct {
	PreviousAssignee string `json:"previous_assignee,omitempty"`
	Assignee         string `json:"assignee,omitempty"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	Author      string `json:"author"`
	BodyPreview string `json:"body_preview"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Priority domain.TicketPriority `json:"priority"`
	Deadline time.Time             `json:"deadline"`
	Assignee string                `json:"assignee,omitempty"`
}
