package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
)

// Document is the whole persisted state: every ticket plus the help desk settings.
type Document struct {
	Tickets  []domain.Ticket `json:"tickets"`
	Settings domain.Settings `json:"settings"`
}

// EmptyDocument returns a document with no tickets and default settings.
func EmptyDocument() *Document {
	return &Document{Tickets: []domain.Ticket{}, Settings: domain.DefaultSettings()}
}

// EncodeDocument renders doc as indented JSON. Equal documents always encode to equal bytes.
func EncodeDocument(doc *Document) ([]byte, error) {
	if doc.Tickets == nil {
		doc.Tickets = []domain.Ticket{}
	}
	for i := range doc.Tickets {
		doc.Tickets[i].Normalize()
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// DecodeDocument validates data against the document schema and decodes it.
// Settings keys missing from data keep their defaults.
func DecodeDocument(data []byte) (*Document, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}
	doc := EmptyDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if doc.Tickets == nil {
		doc.Tickets = []domain.Ticket{}
	}
	for i := range doc.Tickets {
		doc.Tickets[i].Normalize()
	}
	return doc, nil
}

// DefaultDocument returns the built-in sample data used when nothing has been persisted yet.
func DefaultDocument() *Document {
	ts := domain.MustParseTimestamp
	assignee := func(name string) *string { return &name }

	return &Document{
		Tickets: []domain.Ticket{
			{
				ID:            "0001",
				Title:         "Computer won't start",
				Description:   "My desktop computer won't turn on this morning. No lights or sounds when pressing power button.",
				Category:      domain.CategoryHardware,
				Priority:      domain.TicketPriorityHigh,
				Urgency:       domain.TicketUrgencyHigh,
				Status:        domain.TicketStatusOpen,
				EmployeeID:    "EMP001",
				EmployeeName:  "John Doe",
				EmployeeEmail: "john.doe@company.com",
				Department:    "Information Technology",
				Location:      "Building A, Floor 3, Desk 15",
				Phone:         "+1-555-0101",
				CreatedDate:   ts("2025-06-20 09:15:30"),
				UpdatedDate:   ts("2025-06-20 09:15:30"),
				Attachments:   []string{},
				Comments:      []domain.Comment{},
			},
			{
				ID:            "0002",
				Title:         "Email not syncing on mobile device",
				Description:   "Unable to receive emails on my iPhone. Last sync was yesterday evening.",
				Category:      domain.CategoryEmail,
				Priority:      domain.TicketPriorityMedium,
				Urgency:       domain.TicketUrgencyMedium,
				Status:        domain.TicketStatusInProgress,
				EmployeeID:    "EMP004",
				EmployeeName:  "Alice Brown",
				EmployeeEmail: "alice.brown@company.com",
				Department:    "Human Resources",
				Location:      "Building B, Floor 2",
				Phone:         "+1-555-0201",
				CreatedDate:   ts("2025-06-19 14:30:15"),
				UpdatedDate:   ts("2025-06-20 10:45:22"),
				AssignedTo:    assignee("John Smith (IT)"),
				Attachments:   []string{},
				Comments: []domain.Comment{
					{Author: "John Smith (IT)", Comment: "Checking Exchange server settings. Will update shortly.", Timestamp: ts("2025-06-20 10:45:22")},
				},
			},
			{
				ID:            "0003",
				Title:         "Printer offline in accounting department",
				Description:   "The main printer in accounting shows as offline. Cannot print invoices.",
				Category:      domain.CategoryPrinter,
				Priority:      domain.TicketPriorityMedium,
				Urgency:       domain.TicketUrgencyHigh,
				Status:        domain.TicketStatusResolved,
				EmployeeID:    "EMP006",
				EmployeeName:  "David Miller",
				EmployeeEmail: "david.miller@company.com",
				Department:    "Finance",
				Location:      "Building C, Floor 1",
				Phone:         "+1-555-0301",
				CreatedDate:   ts("2025-06-18 11:20:45"),
				UpdatedDate:   ts("2025-06-19 16:30:12"),
				AssignedTo:    assignee("Sarah Johnson (IT)"),
				Resolution:    "Printer driver was corrupted. Reinstalled drivers and printer is now working normally.",
				Attachments:   []string{},
				Comments: []domain.Comment{
					{Author: "Sarah Johnson (IT)", Comment: "Investigating printer connection issues.", Timestamp: ts("2025-06-18 13:15:30")},
					{Author: "Sarah Johnson (IT)", Comment: "Found driver corruption. Reinstalling now.", Timestamp: ts("2025-06-19 16:25:45")},
				},
			},
			{
				ID:            "0004",
				Title:         "VPN connection keeps dropping",
				Description:   "VPN connection disconnects every 10-15 minutes when working from home.",
				Category:      domain.CategoryNetwork,
				Priority:      domain.TicketPriorityMedium,
				Urgency:       domain.TicketUrgencyMedium,
				Status:        domain.TicketStatusOpen,
				EmployeeID:    "EMP008",
				EmployeeName:  "Michael Taylor",
				EmployeeEmail: "michael.taylor@company.com",
				Department:    "Marketing",
				Location:      "Remote - Home Office",
				Phone:         "+1-555-0401",
				CreatedDate:   ts("2025-06-21 08:45:10"),
				UpdatedDate:   ts("2025-06-21 08:45:10"),
				Attachments:   []string{},
				Comments:      []domain.Comment{},
			},
			{
				ID:            "0005",
				Title:         "Need access to new project folder",
				Description:   "Require access to the Project Phoenix shared folder for the new marketing campaign.",
				Category:      domain.CategorySecurity,
				Priority:      domain.TicketPriorityLow,
				Urgency:       domain.TicketUrgencyLow,
				Status:        domain.TicketStatusClosed,
				EmployeeID:    "EMP008",
				EmployeeName:  "Michael Taylor",
				EmployeeEmail: "michael.taylor@company.com",
				Department:    "Marketing",
				Location:      "Building D, Floor 2",
				Phone:         "+1-555-0401",
				CreatedDate:   ts("2025-06-17 13:20:35"),
				UpdatedDate:   ts("2025-06-18 09:15:22"),
				AssignedTo:    assignee("Mike Wilson (IT)"),
				Resolution:    "Access granted to Project Phoenix folder. User can now access all required documents.",
				Attachments:   []string{},
				Comments: []domain.Comment{
					{Author: "Mike Wilson (IT)", Comment: "Verifying permissions with manager.", Timestamp: ts("2025-06-17 15:30:12")},
					{Author: "Mike Wilson (IT)", Comment: "Approval received. Granting access now.", Timestamp: ts("2025-06-18 09:10:45")},
				},
			},
		},
		Settings: domain.DefaultSettings(),
	}
}
