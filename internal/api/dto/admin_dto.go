package dto

import (
	"time"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
)

// BulkAssignRequest payload.
type BulkAssignRequest struct {
	TicketIDs []string `json:"ticket_ids"`
	Assignee  string   `json:"assignee"`
}

// RestoreRequest payload. Backup must be a bare file name from the backup directory.
type RestoreRequest struct {
	Backup string `json:"backup"`
}

// ReportRequest payload. Dates are YYYY-MM-DD.
type ReportRequest struct {
	From       string                  `json:"from"`
	To         string                  `json:"to"`
	Statuses   []domain.TicketStatus   `json:"statuses"`
	Priorities []domain.TicketPriority `json:"priorities"`
	Department string                  `json:"department"`
}

// OverdueResponse describes a ticket past its response deadline.
type OverdueResponse struct {
	Ticket    TicketResponse `json:"ticket"`
	Deadline  time.Time      `json:"deadline"`
	OverdueBy string         `json:"overdue_by"`
}
