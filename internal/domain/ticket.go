package domain

// TicketStatus enumerates lifecycle states for tickets.
// Any status may be set from any other; there is no transition graph.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates how important the request is to the business.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// TicketUrgency enumerates how soon the submitter needs help.
type TicketUrgency string

const (
	TicketUrgencyLow      TicketUrgency = "Low"
	TicketUrgencyMedium   TicketUrgency = "Medium"
	TicketUrgencyHigh     TicketUrgency = "High"
	TicketUrgencyCritical TicketUrgency = "Critical"
)

// TicketCategory is one of the fixed help desk categories.
type TicketCategory string

const (
	CategoryHardware TicketCategory = "Hardware Issues"
	CategorySoftware TicketCategory = "Software Issues"
	CategoryNetwork  TicketCategory = "Network/Connectivity"
	CategoryEmail    TicketCategory = "Email/Communication"
	CategorySecurity TicketCategory = "Security/Access"
	CategoryPrinter  TicketCategory = "Printer/Peripherals"
	CategoryAccount  TicketCategory = "Account Management"
	CategoryOther    TicketCategory = "Other"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// TicketPriorities lists every priority from lowest to highest.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
}

// TicketUrgencies lists every urgency from lowest to highest.
var TicketUrgencies = []TicketUrgency{
	TicketUrgencyLow,
	TicketUrgencyMedium,
	TicketUrgencyHigh,
	TicketUrgencyCritical,
}

// TicketCategories lists the categories offered on the submission form.
var TicketCategories = []TicketCategory{
	CategoryHardware,
	CategorySoftware,
	CategoryNetwork,
	CategoryEmail,
	CategorySecurity,
	CategoryPrinter,
	CategoryAccount,
	CategoryOther,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	for _, known := range TicketPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// Valid reports whether u is a known urgency.
func (u TicketUrgency) Valid() bool {
	for _, known := range TicketUrgencies {
		if u == known {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the fixed categories.
func (c TicketCategory) Valid() bool {
	for _, known := range TicketCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Ticket is a single support request and the unit the store persists.
type Ticket struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      TicketCategory `json:"category"`
	Priority      TicketPriority `json:"priority"`
	Urgency       TicketUrgency  `json:"urgency"`
	Status        TicketStatus   `json:"status"`
	EmployeeID    string         `json:"employee_id"`
	EmployeeName  string         `json:"employee_name"`
	EmployeeEmail string         `json:"employee_email"`
	Department    string         `json:"department"`
	Location      string         `json:"location"`
	Phone         string         `json:"phone"`
	CreatedDate   Timestamp      `json:"created_date"`
	UpdatedDate   Timestamp      `json:"updated_date"`
	AssignedTo    *string        `json:"assigned_to"`
	Resolution    string         `json:"resolution"`
	Attachments   []string       `json:"attachments"`
	Comments      []Comment      `json:"comments"`
}

// Comment is one entry in a ticket's append-only thread.
type Comment struct {
	Author    string    `json:"author"`
	Comment   string    `json:"comment"`
	Timestamp Timestamp `json:"timestamp"`
}

// IsAssigned reports whether somebody owns the ticket.
func (t *Ticket) IsAssigned() bool {
	return t.AssignedTo != nil && *t.AssignedTo != ""
}

// Assignee returns the assignee name or "" when unassigned.
func (t *Ticket) Assignee() string {
	if t.AssignedTo == nil {
		return ""
	}
	return *t.AssignedTo
}

// Normalize replaces nil slices so the ticket always serializes "[]" rather than "null".
func (t *Ticket) Normalize() {
	if t.Attachments == nil {
		t.Attachments = []string{}
	}
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
}

// Clone returns a deep copy so callers cannot mutate collection state through shared slices.
func (t Ticket) Clone() Ticket {
	out := t
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		out.AssignedTo = &assignee
	}
	out.Attachments = append([]string{}, t.Attachments...)
	out.Comments = append([]Comment{}, t.Comments...)
	return out
}
